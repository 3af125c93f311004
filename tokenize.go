package worddiff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
)

// Tokenizer splits a text into words and whitespace runs and writes them to
// the scratch sequences of an InputFile. Exactly one of Bytes or Clusters
// selects the character mode.
type Tokenizer struct {
	Bytes    *ByteClasses
	Clusters *ClusterClasses

	IgnoreCase bool
	// Transliterate escapes line breaks and backslashes inside of tokens. It
	// is forced when the line break is not whitespace.
	Transliterate bool
	// Paragraphs inserts an empty word into whitespace runs with more than one
	// line break.
	Paragraphs bool
}

// NeedsTransliteration reports whether tokens may contain a line break. In
// cluster mode CR LF is a single cluster that must be whitespace as well.
func (t *Tokenizer) NeedsTransliteration() bool {
	if t.Transliterate {
		return true
	}
	if t.Clusters != nil {
		return t.Clusters.Classify("\n") != Whitespace ||
			t.Clusters.Classify("\r\n") != Whitespace
	}
	return t.Bytes.Classify('\n') != Whitespace
}

// Tokenize reads r up to EOF and stores the resulting sequences in f. It sets
// f.Words to the number of words written.
func (t *Tokenizer) Tokenize(r io.Reader, f *InputFile) (err error) {
	f.translit = t.NeedsTransliteration()
	w := seqWriter{
		tokens:     bufio.NewWriter(f.tokens),
		compare:    bufio.NewWriter(f.compare),
		space:      bufio.NewWriter(f.space),
		translit:   f.translit,
		paragraphs: t.Paragraphs,
	}
	switch {
	case t.Clusters != nil:
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			return fmt.Errorf("read %s: %w", f.Name, rerr)
		}
		sc := &clusterScanner{
			classes: t.Clusters,
			rest:    data,
			state:   -1,
		}
		if t.IgnoreCase {
			sc.fold = cases.Fold()
			sc.folding = true
		}
		f.Words, err = tokenize(sc, &w)
	case t.Bytes != nil:
		sc := &byteScanner{
			classes:    t.Bytes,
			rd:         bufio.NewReader(r),
			ignoreCase: t.IgnoreCase,
		}
		f.Words, err = tokenize(sc, &w)
	default:
		return errors.New("tokenizer without character classes")
	}
	if err != nil {
		return fmt.Errorf("tokenize %s: %w", f.Name, err)
	}
	return nil
}

type charScanner interface {
	scan() bool
	err() error
	category() Category
	// raw returns the original bytes of the current character
	raw() []byte
	// cmp returns the comparison form of the current character
	cmp() []byte
}

type tokState uint8

const (
	stNone tokState = iota
	stWord
	stSpace
)

func tokenize[S charScanner](sc S, w *seqWriter) (int, error) {
	state := stNone
	for sc.scan() {
		cat := sc.category()
		switch state {
		case stNone:
			switch cat {
			case Whitespace:
				w.spaceChar(sc.raw())
				state = stSpace
			case Delimiter:
				w.endSpace()
				w.tokenChar(sc.raw(), sc.cmp())
				w.endToken()
				state = stSpace
			default:
				w.endSpace()
				w.tokenChar(sc.raw(), sc.cmp())
				state = stWord
			}
		case stWord:
			switch cat {
			case Whitespace:
				w.endToken()
				w.spaceChar(sc.raw())
				state = stSpace
			case Delimiter:
				w.endToken()
				w.endSpace()
				w.tokenChar(sc.raw(), sc.cmp())
				w.endToken()
				state = stSpace
			default:
				w.tokenChar(sc.raw(), sc.cmp())
			}
		case stSpace:
			switch cat {
			case Whitespace:
				w.spaceChar(sc.raw())
			case Delimiter:
				w.endSpace()
				w.tokenChar(sc.raw(), sc.cmp())
				w.endToken()
			default:
				w.endSpace()
				w.tokenChar(sc.raw(), sc.cmp())
				state = stWord
			}
		}
	}
	if err := sc.err(); err != nil {
		return w.words, err
	}
	if state == stWord {
		w.endToken()
	}
	w.endSpace()
	return w.words, w.flush()
}

type byteScanner struct {
	classes    *ByteClasses
	rd         *bufio.Reader
	ignoreCase bool
	c          [1]byte
	l          [1]byte
	rdErr      error
}

func (s *byteScanner) scan() bool {
	c, err := s.rd.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.rdErr = err
		}
		return false
	}
	s.c[0] = c
	if s.ignoreCase && 'A' <= c && c <= 'Z' {
		c += 'a' - 'A'
	}
	s.l[0] = c
	return true
}

func (s *byteScanner) err() error { return s.rdErr }

func (s *byteScanner) category() Category { return s.classes.Classify(s.c[0]) }

func (s *byteScanner) raw() []byte { return s.c[:] }

func (s *byteScanner) cmp() []byte { return s.l[:] }

type clusterScanner struct {
	classes *ClusterClasses
	rest    []byte
	state   int
	fold    cases.Caser
	folding bool

	cluster []byte
	key     []byte
	form    []byte
}

func (s *clusterScanner) scan() bool {
	if len(s.rest) == 0 {
		return false
	}
	s.cluster, s.rest, _, s.state = uniseg.FirstGraphemeCluster(s.rest, s.state)
	s.key = s.classes.form.Append(s.key[:0], s.cluster...)
	if s.folding {
		s.form = s.fold.Bytes(s.key)
	} else {
		s.form = s.key
	}
	return true
}

func (s *clusterScanner) err() error { return nil }

func (s *clusterScanner) category() Category {
	return s.classes.Classify(string(s.key))
}

func (s *clusterScanner) raw() []byte { return s.cluster }

func (s *clusterScanner) cmp() []byte { return s.form }

type seqWriter struct {
	tokens, compare, space *bufio.Writer
	translit               bool
	paragraphs             bool

	run   []byte
	words int
}

func (w *seqWriter) tokenChar(raw, cmp []byte) {
	writeToken(w.tokens, raw, w.translit)
	writeToken(w.compare, cmp, w.translit)
}

func writeToken(w *bufio.Writer, b []byte, translit bool) {
	if !translit {
		w.Write(b)
		return
	}
	for _, c := range b {
		switch c {
		case '\n':
			w.WriteString(`\n`)
		case '\\':
			w.WriteString(`\\`)
		default:
			w.WriteByte(c)
		}
	}
}

func (w *seqWriter) endToken() {
	w.tokens.WriteByte('\n')
	w.compare.WriteByte('\n')
	w.words++
}

func (w *seqWriter) spaceChar(raw []byte) { w.run = append(w.run, raw...) }

func (w *seqWriter) endSpace() {
	run := w.run
	w.run = w.run[:0]
	if w.paragraphs && bytes.Count(run, []byte{'\n'}) > 1 {
		cut := 0
		if w.words > 0 {
			cut = bytes.IndexByte(run, '\n') + 1
		}
		w.writeRun(run[:cut])
		w.endToken()
		run = run[cut:]
	}
	w.writeRun(run)
}

func (w *seqWriter) writeRun(run []byte) {
	for _, c := range run {
		if c == 0 || c == '\\' {
			w.space.WriteByte('\\')
		}
		w.space.WriteByte(c)
	}
	w.space.WriteByte(0)
}

func (w *seqWriter) flush() error {
	if err := w.tokens.Flush(); err != nil {
		return err
	}
	if err := w.compare.Flush(); err != nil {
		return err
	}
	return w.space.Flush()
}
