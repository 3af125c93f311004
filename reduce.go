package worddiff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// windowPad stands for window positions outside of the text.
const windowPad = '@'

// writeWindows writes one line for each word lo..hi of forms. A line
// encodes the words within radius of its center word, so that two lines
// are equal only if their whole neighborhoods are equal.
func writeWindows(w io.Writer, forms []string, lo, hi, radius int) error {
	bw := bufio.NewWriter(w)
	var num []byte
	for c := lo; c <= hi; c++ {
		for k := c - radius; k <= c+radius; k++ {
			if k < 1 || k > len(forms) {
				bw.WriteByte(windowPad)
			} else {
				num = strconv.AppendInt(num[:0], int64(len(forms[k-1])), 16)
				bw.Write(num)
			}
			bw.WriteByte(',')
		}
		for k := max(1, c-radius); k <= min(len(forms), c+radius); k++ {
			bw.WriteString(forms[k-1])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// reducer computes the change commands of two tokenized texts. With a
// window width greater zero, words are compared within their context and
// the resulting commands are refined recursively with shrinking windows.
type reducer struct {
	differ    Differ
	scratch   *Scratch
	log       *log.Logger
	match     int
	aggregate bool
	emit      func(Command) error

	old, new []string
}

func (r *reducer) run(oldF, newF *InputFile, width int) (err error) {
	if width == 0 {
		return r.diff(oldF.CompareName(), newF.CompareName(), 0, r.emit)
	}
	if r.old, err = oldF.compareForms(); err != nil {
		return err
	}
	if r.new, err = newF.compareForms(); err != nil {
		return err
	}
	return r.windows(Range{1, len(r.old)}, Range{1, len(r.new)}, width, 0,
		func(cmd Command) error { return r.reduce(cmd, width, 0) },
	)
}

// windows renders the word ranges old and new as window streams, compares
// them and passes the resulting commands in text coordinates to each.
func (r *reducer) windows(old, new Range, width, depth int, each func(Command) error) error {
	r.log.Debug("compare windows",
		"depth", depth,
		"width", width,
		"old", old,
		"new", new,
	)
	of, err := r.windowFile(r.old, old, width, depth, "old-windows")
	if err != nil {
		return err
	}
	defer r.scratch.Release(of)
	nf, err := r.windowFile(r.new, new, width, depth, "new-windows")
	if err != nil {
		return err
	}
	defer r.scratch.Release(nf)
	return r.diff(of.Name(), nf.Name(), depth, func(cmd Command) error {
		cmd.Old = cmd.Old.shift(old.Low - 1)
		cmd.New = cmd.New.shift(new.Low - 1)
		return each(cmd)
	})
}

func (r *reducer) windowFile(forms []string, rng Range, width, depth int, role string) (afero.File, error) {
	f, err := r.scratch.Create(depth, role)
	if err != nil {
		return nil, err
	}
	if err = writeWindows(f, forms, rng.Low, rng.High, width); err != nil {
		r.scratch.Release(f)
		return nil, fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return f, nil
}

func (r *reducer) diff(oldName, newName string, depth int, each func(Command) error) error {
	script, err := r.differ.Diff(r.scratch.Fs(), oldName, newName)
	if err != nil {
		return err
	}
	sr := NewScriptReader(script)
	for {
		var cmd Command
		if cmd, err = sr.Next(); err != nil {
			break
		}
		if err = each(cmd); err != nil {
			break
		}
	}
	cerr := script.Close()
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return cerr
	}
	return err
}

// reduce narrows a command found with windows of the given width to the
// words that really differ.
func (r *reducer) reduce(cmd Command, width, depth int) error {
	old, new := r.narrow(cmd.Old, cmd.New, width-r.match)
	if old.Empty() && new.Empty() {
		return nil
	}
	if !r.aggregate && width > r.match && old.Len() > r.match && new.Len() > r.match {
		sub := max((width/2)&^1, r.match)
		return r.windows(old, new, sub, depth+1, func(c Command) error {
			return r.reduce(c, sub, depth+1)
		})
	}
	old, new = r.narrow(old, new, r.match)
	if old.Empty() && new.Empty() {
		return nil
	}
	return r.emit(MakeCommand(old, new))
}

// narrow strips up to by words from both ends of the ranges, as long as the
// stripped words are equal in both texts.
func (r *reducer) narrow(old, new Range, by int) (Range, Range) {
	m := min(old.Len(), new.Len())
	lo := 0
	for lo < by && lo < m && r.old[old.Low-1+lo] == r.new[new.Low-1+lo] {
		lo++
	}
	hi := 0
	for hi < by && lo+hi < m && r.old[old.High-1-hi] == r.new[new.High-1-hi] {
		hi++
	}
	return Range{old.Low + lo, old.High - hi}, Range{new.Low + lo, new.High - hi}
}
