package worddiff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

var (
	// ErrReadBack reports scratch data that does not follow the encoding the
	// tokenizer writes.
	ErrReadBack = errors.New("error reading back input")
	// ErrBookkeeping reports change commands that do not fit the positions
	// already replayed.
	ErrBookkeeping = errors.New("inconsistent word positions")
)

// InputFile holds the tokenized sequences of one of the compared texts. The
// sequences are written once by a Tokenizer and then read strictly forward
// during replay.
type InputFile struct {
	Name  string
	Words int

	tokens, compare, space afero.File
	translit               bool

	tokRd, spaceRd *bufio.Reader
	lastPrinted    int
	peek           []byte
	peeked         bool
}

func NewInputFile(sc *Scratch, name, role string) (f *InputFile, err error) {
	f = &InputFile{Name: name}
	if f.tokens, err = sc.Create(0, role+"-tokens"); err != nil {
		return nil, err
	}
	if f.compare, err = sc.Create(0, role+"-compare"); err != nil {
		sc.Release(f.tokens)
		return nil, err
	}
	if f.space, err = sc.Create(0, role+"-space"); err != nil {
		sc.Release(f.tokens, f.compare)
		return nil, err
	}
	return f, nil
}

// CompareName is the name of the file holding one compare form per line.
func (f *InputFile) CompareName() string { return f.compare.Name() }

func (f *InputFile) compareForms() ([]string, error) {
	if _, err := f.compare.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", f.compare.Name(), err)
	}
	forms := make([]string, 0, f.Words)
	scn := bufio.NewScanner(f.compare)
	scn.Buffer(nil, 1<<30)
	scn.Split(scanLF)
	for scn.Scan() {
		forms = append(forms, scn.Text())
	}
	if err := scn.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.compare.Name(), err)
	}
	if len(forms) != f.Words {
		return nil, fmt.Errorf("%w: %s has %d compare forms for %d words",
			ErrReadBack, f.Name, len(forms), f.Words)
	}
	return forms, nil
}

// scanLF splits lines at '\n' only. Unlike bufio.ScanLines it keeps a
// trailing '\r', which is part of the word when it is not whitespace.
func scanLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (f *InputFile) startReplay() error {
	if _, err := f.tokens.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", f.tokens.Name(), err)
	}
	if _, err := f.space.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", f.space.Name(), err)
	}
	f.tokRd = bufio.NewReader(f.tokens)
	f.spaceRd = bufio.NewReader(f.space)
	f.lastPrinted = 0
	f.peeked = false
	return nil
}

func (f *InputFile) peekRun() ([]byte, error) {
	if !f.peeked {
		run, err := readRun(f.spaceRd)
		if err != nil {
			return nil, err
		}
		f.peek, f.peeked = run, true
	}
	return f.peek, nil
}

func (f *InputFile) nextRun() ([]byte, error) {
	if f.peeked {
		f.peeked = false
		return f.peek, nil
	}
	return readRun(f.spaceRd)
}

func readRun(rd *bufio.Reader) ([]byte, error) {
	var run []byte
	for {
		c, err := rd.ReadByte()
		if err != nil {
			return nil, readBackErr(err)
		}
		switch c {
		case 0:
			return run, nil
		case '\\':
			if c, err = rd.ReadByte(); err != nil {
				return nil, readBackErr(err)
			}
		}
		run = append(run, c)
	}
}

func (f *InputFile) nextToken() ([]byte, error) {
	line, err := f.tokRd.ReadBytes('\n')
	if err != nil {
		return nil, readBackErr(err)
	}
	tok := line[:len(line)-1]
	if !f.translit || bytes.IndexByte(tok, '\\') < 0 {
		return tok, nil
	}
	w := 0
	for r := 0; r < len(tok); r++ {
		c := tok[r]
		if c == '\\' {
			if r++; r == len(tok) {
				return nil, ErrReadBack
			}
			switch tok[r] {
			case 'n':
				c = '\n'
			case '\\':
			default:
				return nil, ErrReadBack
			}
		}
		tok[w] = c
		w++
	}
	return tok[:w], nil
}

func readBackErr(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected end of data", ErrReadBack)
	}
	return err
}

func (f *InputFile) release(sc *Scratch) error {
	return sc.Release(f.tokens, f.compare, f.space)
}
