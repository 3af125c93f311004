package worddiff

import (
	"bytes"
	"fmt"
	"strconv"
)

// mode of output; modeAdd must be 0 and modeOldCommon must equal
// modeDel+modeCommon.
type mode uint8

const (
	modeAdd mode = iota
	modeDel
	modeCommon
	modeOldCommon
)

func (m mode) common() bool { return m&modeCommon != 0 }

const (
	resetColor    = "\033[0m"
	markerLine    = "======================================================================"
	defaultLNoWid = 4
)

// engine replays the tokenized texts along a stream of change commands.
type engine struct {
	pres     presentation
	pb       *printBuffer
	old, new *InputFile

	oldLine, newLine int
	lastWasLF        bool
	stats            Statistics
	differences      bool
}

func newEngine(pres presentation, pb *printBuffer, old, new *InputFile) *engine {
	return &engine{
		pres:      pres,
		pb:        pb,
		old:       old,
		new:       new,
		oldLine:   1,
		newLine:   1,
		lastWasLF: true,
		stats: Statistics{
			OldWords: old.Words,
			NewWords: new.Words,
		},
	}
}

func (e *engine) begin() error {
	if err := e.old.startReplay(); err != nil {
		return err
	}
	if err := e.new.startReplay(); err != nil {
		return err
	}
	if e.pres.needMarkers {
		e.pb.direct(markerLine + "\n")
	}
	return nil
}

// apply handles one change command. Commands must arrive in increasing
// order.
func (e *engine) apply(cmd Command) error {
	if cmd.Old.Low-1-e.old.lastPrinted != cmd.New.Low-1-e.new.lastPrinted ||
		cmd.Old.Low-1 < e.old.lastPrinted {
		return fmt.Errorf("%w: command %s after old word %d, new word %d",
			ErrBookkeeping, cmd, e.old.lastPrinted, e.new.lastPrinted)
	}
	if cmd.Old.High > e.old.Words || cmd.New.High > e.new.Words {
		return fmt.Errorf("%w: command %s beyond end of text", ErrBookkeeping, cmd)
	}
	if err := e.toCommon(cmd.New.Low - 1); err != nil {
		return err
	}
	addFirst := false
	if e.pres.reorder && cmd.Kind == Change {
		oldRun, err := e.old.peekRun()
		if err != nil {
			return err
		}
		newRun, err := e.new.peekRun()
		if err != nil {
			return err
		}
		addFirst = bytes.IndexByte(oldRun, '\n') >= 0 && bytes.IndexByte(newRun, '\n') < 0
	}
	if addFirst {
		if err := e.words(cmd.New, e.new, e.pres.showAdded, modeAdd); err != nil {
			return err
		}
		if err := e.words(cmd.Old, e.old, e.pres.showDeleted, modeDel); err != nil {
			return err
		}
	} else {
		if cmd.Kind != Add {
			if err := e.words(cmd.Old, e.old, e.pres.showDeleted, modeDel); err != nil {
				return err
			}
		}
		if cmd.Kind != Delete {
			if err := e.words(cmd.New, e.new, e.pres.showAdded, modeAdd); err != nil {
				return err
			}
		}
	}
	if e.pres.needMarkers {
		e.pb.direct("\n" + markerLine + "\n")
		e.lastWasLF = true
	}
	switch cmd.Kind {
	case Add:
		e.stats.Added += cmd.New.Len()
	case Delete:
		e.stats.Deleted += cmd.Old.Len()
	case Change:
		e.stats.NewChanged += cmd.New.Len()
		e.stats.OldChanged += cmd.Old.Len()
	}
	e.differences = true
	return nil
}

// end replays the common text after the last command.
func (e *engine) end() error {
	if !e.pres.showCommon {
		return nil
	}
	if err := e.toCommon(e.new.Words); err != nil {
		return err
	}
	if e.old.lastPrinted != e.old.Words {
		return fmt.Errorf("%w: %d old words left after end of new text",
			ErrBookkeeping, e.old.Words-e.old.lastPrinted)
	}
	return e.syncSpace()
}

func (e *engine) toCommon(idx int) error {
	for e.new.lastPrinted < idx {
		if err := e.syncSpace(); err != nil {
			return err
		}
		if err := e.token(e.new, e.pres.showCommon, modeCommon); err != nil {
			return err
		}
		if err := e.token(e.old, false, modeOldCommon); err != nil {
			return err
		}
		e.new.lastPrinted++
		e.old.lastPrinted++
	}
	return nil
}

func (e *engine) words(r Range, f *InputFile, print bool, m mode) error {
	if f.lastPrinted != r.Low-1 {
		return fmt.Errorf("%w: %s at word %d, range starts at %d",
			ErrBookkeeping, f.Name, f.lastPrinted, r.Low)
	}
	run, err := f.nextRun()
	if err != nil {
		return err
	}
	// leading whitespace is never overstruck
	e.space(run, print, m+modeCommon)
	if print {
		e.postLinefeed(modeCommon)
		if e.pres.needStartStop {
			if m == modeAdd {
				if e.pres.color {
					e.pb.write(e.pres.addColor)
				}
				e.pb.write(e.pres.addStart)
			} else {
				if e.pres.color {
					e.pb.write(e.pres.delColor)
				}
				e.pb.write(e.pres.delStart)
			}
		}
	}
	if err = e.token(f, print, m); err != nil {
		return err
	}
	f.lastPrinted++
	for f.lastPrinted < r.High {
		if run, err = f.nextRun(); err != nil {
			return err
		}
		e.space(run, print, m)
		if err = e.token(f, print, m); err != nil {
			return err
		}
		f.lastPrinted++
	}
	if print {
		e.postLinefeed(m)
		if e.pres.needStartStop {
			if m == modeAdd {
				e.pb.write(e.pres.addStop)
			} else {
				e.pb.write(e.pres.delStop)
			}
			if e.pres.color {
				e.pb.write(resetColor)
			}
		}
	}
	return nil
}

func (e *engine) postLinefeed(m mode) {
	if !e.lastWasLF {
		return
	}
	if m.common() {
		m = modeCommon
	}
	e.lastWasLF = false
	if w := e.pres.lineNumbers; w > 0 {
		if e.pres.color && m != modeCommon {
			e.pb.write(resetColor)
		}
		e.pb.write(lineNumbers(w, e.oldLine, e.newLine))
	}
	if e.pres.color && e.pres.needStartStop && m != modeCommon {
		if m == modeAdd {
			e.pb.write(e.pres.addColor)
		} else {
			e.pb.write(e.pres.delColor)
		}
	}
}

func lineNumbers(width, old, new int) string {
	o, n := strconv.Itoa(old), strconv.Itoa(new)
	var sb bytes.Buffer
	for i := len(o); i < width; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteString(o)
	sb.WriteByte(':')
	sb.WriteString(n)
	for i := len(n); i < width; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteByte(' ')
	return sb.String()
}

func (e *engine) space(run []byte, print bool, m mode) {
	for _, c := range run {
		if print {
			e.postLinefeed(m)
			if e.pres.less && c != '\n' && m == modeDel {
				e.pb.putc('_', false)
				e.pb.putc('\b', false)
			}
			e.pb.putc(c, m.common())
			if c == '\n' {
				e.lastWasLF = true
			}
		}
		if c == '\n' {
			switch m {
			case modeCommon, modeAdd:
				e.newLine++
			default:
				e.oldLine++
			}
		}
	}
}

// syncSpace prints the next whitespace run of the new text and skips the
// one of the old text. Old line breaks are counted along with new ones so
// that line numbers of both texts advance together.
func (e *engine) syncSpace() error {
	newRun, err := e.new.nextRun()
	if err != nil {
		return err
	}
	oldRun, err := e.old.nextRun()
	if err != nil {
		return err
	}
	oldLFs := bytes.Count(oldRun, []byte{'\n'})
	seen := 0
	for _, c := range newRun {
		if e.pres.showCommon {
			e.postLinefeed(modeCommon)
			e.pb.putc(c, true)
			if c == '\n' {
				e.lastWasLF = true
			}
		}
		if c == '\n' {
			e.newLine++
			if seen < oldLFs {
				e.oldLine++
				seen++
			}
		}
	}
	e.oldLine += oldLFs - seen
	return nil
}

func (e *engine) token(f *InputFile, print bool, m mode) error {
	tok, err := f.nextToken()
	if err != nil {
		return err
	}
	for _, c := range tok {
		if print {
			e.postLinefeed(m)
			if (e.pres.printer || e.pres.less) && c != '\n' {
				switch m {
				case modeDel:
					e.pb.putc('_', false)
					e.pb.putc('\b', false)
				case modeAdd:
					e.pb.putc(c, false)
					e.pb.putc('\b', false)
				}
			}
			e.pb.putc(c, m.common())
			if c == '\n' {
				e.lastWasLF = true
			}
		}
		if c == '\n' {
			switch m {
			case modeCommon:
				e.oldLine++
				e.newLine++
			case modeAdd:
				e.newLine++
			case modeDel:
				e.oldLine++
			}
		}
	}
	return nil
}
