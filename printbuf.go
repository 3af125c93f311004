package worddiff

import "bufio"

type bufState uint8

const (
	buffering bufState = iota
	printingChanged
	printingAfterContext
)

const hunkSeparator = "--\n"

// printBuffer gates all output. With context lines set, common text is held
// back in a ring of context+1 line buffers until a changed character shows
// that it has to be printed as leading context.
type printBuffer struct {
	out     *bufio.Writer
	context int

	slots   [][]byte
	idx     int
	state   bufState
	wrapped bool
	first   bool
	after   int
}

func newPrintBuffer(out *bufio.Writer, context int) *printBuffer {
	pb := &printBuffer{out: out, context: context, first: true}
	if context > 0 {
		pb.slots = make([][]byte, context+1)
	}
	return pb
}

func (pb *printBuffer) holding() bool {
	return pb.context > 0 && pb.state == buffering
}

// putc writes one character of the compared texts.
func (pb *printBuffer) putc(c byte, common bool) {
	if pb.context == 0 {
		pb.out.WriteByte(c)
		return
	}
	if !common && pb.state == buffering {
		if pb.wrapped {
			if !pb.first {
				pb.out.WriteString(hunkSeparator)
			}
			for i := pb.idx + 1; i <= pb.context; i++ {
				pb.out.Write(pb.slots[i])
			}
		}
		for i := 0; i <= pb.idx; i++ {
			pb.out.Write(pb.slots[i])
		}
		pb.first = false
		pb.state = printingChanged
	}
	if pb.state == buffering {
		pb.slots[pb.idx] = append(pb.slots[pb.idx], c)
	} else {
		pb.out.WriteByte(c)
	}
	if c != '\n' {
		return
	}
	switch pb.state {
	case printingChanged:
		pb.state = printingAfterContext
		pb.after = 0
	case printingAfterContext:
		if pb.after++; pb.after == pb.context {
			pb.state = buffering
			pb.wrapped = false
			pb.idx = 0
		}
	case buffering:
		if pb.idx++; pb.idx > pb.context {
			pb.idx = 0
			pb.wrapped = true
		}
	}
	pb.slots[pb.idx] = pb.slots[pb.idx][:0]
}

// write passes strings without line breaks, like markers or colors, through
// the gate without changing its state.
func (pb *printBuffer) write(s string) {
	if pb.holding() {
		pb.slots[pb.idx] = append(pb.slots[pb.idx], s...)
	} else {
		pb.out.WriteString(s)
	}
}

// direct bypasses the gate.
func (pb *printBuffer) direct(s string) { pb.out.WriteString(s) }

func (pb *printBuffer) flush() error { return pb.out.Flush() }
