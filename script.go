package worddiff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Range is a 1-based inclusive range of word indices. A Range with High <
// Low is empty and denotes the position right before Low.
type Range struct {
	Low, High int
}

// Gap returns the empty range right after word p.
func Gap(p int) Range { return Range{Low: p + 1, High: p} }

func (r Range) Len() int {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

func (r Range) Empty() bool { return r.High < r.Low }

func (r Range) shift(d int) Range { return Range{Low: r.Low + d, High: r.High + d} }

func (r Range) String() string {
	switch {
	case r.Empty():
		return strconv.Itoa(r.High)
	case r.Low == r.High:
		return strconv.Itoa(r.Low)
	}
	return strconv.Itoa(r.Low) + "," + strconv.Itoa(r.High)
}

// Kind is the operation of a change command as used in change scripts.
type Kind byte

const (
	Add    Kind = 'a'
	Delete Kind = 'd'
	Change Kind = 'c'
)

// Command is one hunk of a change script.
type Command struct {
	Kind     Kind
	Old, New Range
}

// MakeCommand derives the kind from the emptiness of the ranges. Both ranges
// must not be empty.
func MakeCommand(old, new Range) Command {
	switch {
	case old.Empty():
		return Command{Kind: Add, Old: old, New: new}
	case new.Empty():
		return Command{Kind: Delete, Old: old, New: new}
	}
	return Command{Kind: Change, Old: old, New: new}
}

// String formats the command the way line differencers write it.
func (c Command) String() string {
	return c.Old.String() + string(rune(c.Kind)) + c.New.String()
}

// ScriptError is a malformed line in a change script.
type ScriptError struct {
	Line int
	err  error
}

func (e ScriptError) Error() string {
	return fmt.Sprintf("diff script %d:%s", e.Line, e.err)
}

func (e ScriptError) Unwrap() error { return e.err }

var errSyntax = errors.New("error parsing diff output")

// ScriptReader reads change commands from the output of a line differencer.
// Lines with the changed text itself, i.e. starting with '<', '>' or '-',
// are skipped.
type ScriptReader struct {
	rd   *bufio.Reader
	line int
}

func NewScriptReader(r io.Reader) *ScriptReader {
	return &ScriptReader{rd: bufio.NewReader(r)}
}

// Next returns io.EOF after the last command.
func (sr *ScriptReader) Next() (Command, error) {
	for {
		c, err := sr.rd.ReadByte()
		if err != nil {
			return Command{}, err
		}
		sr.line++
		switch c {
		case '<', '>', '-':
			if err := sr.skipLine(); err != nil {
				return Command{}, err
			}
			continue
		}
		sr.rd.UnreadByte()
		line, err := sr.rd.ReadSlice('\n')
		switch {
		case errors.Is(err, io.EOF):
		case errors.Is(err, bufio.ErrBufferFull):
			return Command{}, ScriptError{Line: sr.line, err: errSyntax}
		case err != nil:
			return Command{}, err
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			return Command{}, ScriptError{Line: sr.line, err: err}
		}
		return cmd, nil
	}
}

func (sr *ScriptReader) skipLine() error {
	for {
		_, err := sr.rd.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case !errors.Is(err, bufio.ErrBufferFull):
			return err
		}
	}
}

// ParseCommand parses one command line of the form
// <low>[,<high>]<op><low>[,<high>] with op one of 'a', 'd' or 'c'. A trailing
// line break is ignored.
func ParseCommand(line []byte) (cmd Command, err error) {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if len(line) == 0 || line[0] < '0' || line[0] > '9' {
		return cmd, errSyntax
	}
	nums := [4]int{0, -1, -1, -1}
	idx := 0
	digit := false
	for _, c := range line {
		switch {
		case '0' <= c && c <= '9':
			nums[idx] = nums[idx]*10 + int(c-'0')
			digit = true
			continue
		case !digit:
			return cmd, errSyntax
		case c == ',':
			if idx == 1 || idx == 3 {
				return cmd, errSyntax
			}
			idx++
		case c == 'a' || c == 'd' || c == 'c':
			if idx >= 2 {
				return cmd, errSyntax
			}
			cmd.Kind = Kind(c)
			idx = 2
		default:
			return cmd, errSyntax
		}
		nums[idx] = 0
		digit = false
	}
	if cmd.Kind == 0 || !digit {
		return cmd, errSyntax
	}
	old := Range{Low: nums[0], High: nums[0]}
	if nums[1] >= 0 {
		old.High = nums[1]
	}
	new := Range{Low: nums[2], High: nums[2]}
	if nums[3] >= 0 {
		new.High = nums[3]
	}
	if old.High < old.Low || new.High < new.Low {
		return cmd, errSyntax
	}
	switch cmd.Kind {
	case Add:
		if old.Low != old.High {
			return cmd, errSyntax
		}
		old = Gap(old.Low)
	case Delete:
		if new.Low != new.High {
			return cmd, errSyntax
		}
		new = Gap(new.Low)
	}
	cmd.Old, cmd.New = old, new
	return cmd, nil
}
