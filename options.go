package worddiff

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// Default change markers.
const (
	DefaultDelStart = "[-"
	DefaultDelStop  = "-]"
	DefaultAddStart = "{+"
	DefaultAddStop  = "+}"
)

// DefaultLineNumberWidth is the usual field width of line numbers.
const DefaultLineNumberWidth = defaultLNoWid

// Options control tokenization, comparison and output. The zero value
// compares bytes separated by the C locale whitespace and marks changes with
// the default markers.
type Options struct {
	// Delimiters are characters that are words of their own.
	Delimiters string
	// Whitespace replaces the default whitespace if not nil.
	Whitespace *string
	// Punctuation adds all punctuation characters to the delimiters.
	Punctuation bool
	// Clusters compares UTF-8 grapheme clusters instead of bytes.
	Clusters   bool
	IgnoreCase bool
	// IgnoreFormatting compares compatibility decompositions. It needs
	// Clusters.
	IgnoreFormatting bool
	Transliterate    bool
	Paragraphs       bool

	NoDeleted  bool
	NoInserted bool
	NoCommon   bool

	// Markers default to DefaultDelStart etc. if nil. In printer, less and
	// color mode unset markers are empty.
	DelStart, DelStop *string
	AddStart, AddStop *string

	Printer bool
	Less    bool
	Color   bool
	// DelColor and AddColor are escape sequences, see ParseColors.
	DelColor, AddColor string

	// LineNumbers is the width of line numbers, 0 disables them.
	LineNumbers int `validate:"min=0"`
	// Context is the number of common lines shown around changes. With 0
	// all text is shown.
	Context int `validate:"min=0"`

	// DiffContext is the number of words on both sides of a word that have
	// to match for the word to match.
	DiffContext int `validate:"min=0"`
	// MatchContext is the number of matching words required between changes
	// to keep them apart.
	MatchContext int `validate:"min=0,ltefield=DiffContext"`
	Aggregate    bool
	// Reorder shows insertions first when deleted text starts on a new line
	// and inserted text does not.
	Reorder bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var errFormattingBytes = errors.New("ignoring formatting needs grapheme cluster mode")

func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return err
	}
	if o.IgnoreFormatting && !o.Clusters {
		return errFormattingBytes
	}
	_, err := o.tokenizer()
	return err
}

func (o *Options) tokenizer() (*Tokenizer, error) {
	t := &Tokenizer{
		IgnoreCase:    o.IgnoreCase,
		Transliterate: o.Transliterate,
		Paragraphs:    o.Paragraphs,
	}
	var err error
	if o.Clusters {
		form := norm.NFD
		if o.IgnoreFormatting {
			form = norm.NFKD
		}
		t.Clusters, err = NewClusterClasses(form, o.Delimiters, o.Whitespace, o.Punctuation)
	} else {
		var spaces []byte
		if o.Whitespace != nil {
			spaces = append([]byte{}, *o.Whitespace...)
		}
		t.Bytes, err = NewByteClasses([]byte(o.Delimiters), spaces, o.Punctuation)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// presentation is the resolved output setup of Options.
type presentation struct {
	showDeleted, showAdded, showCommon bool
	needMarkers, needStartStop         bool

	delStart, delStop string
	addStart, addStop string

	printer, less, color bool
	delColor, addColor   string
	lineNumbers          int
	reorder              bool
}

func (o *Options) presentation() presentation {
	p := presentation{
		showDeleted: !o.NoDeleted,
		showAdded:   !o.NoInserted,
		showCommon:  !o.NoCommon,
		printer:     o.Printer,
		less:        o.Less,
		color:       o.Color,
		delColor:    o.DelColor,
		addColor:    o.AddColor,
		lineNumbers: o.LineNumbers,
		reorder:     o.Reorder,
	}
	hidden := 0
	for _, h := range []bool{o.NoDeleted, o.NoInserted, o.NoCommon} {
		if h {
			hidden++
		}
	}
	p.needMarkers = hidden < 3 && (o.NoCommon || (o.NoDeleted && o.NoInserted))
	p.needStartStop = hidden < 2
	plain := !o.Printer && !o.Less && !o.Color
	marker := func(s *string, def string) string {
		switch {
		case s != nil:
			return *s
		case plain:
			return def
		}
		return ""
	}
	p.delStart = marker(o.DelStart, DefaultDelStart)
	p.delStop = marker(o.DelStop, DefaultDelStop)
	p.addStart = marker(o.AddStart, DefaultAddStart)
	p.addStop = marker(o.AddStop, DefaultAddStop)
	if o.Color {
		if p.delColor == "" {
			p.delColor, _ = ColorEscape(DefaultDelColor)
		}
		if p.addColor == "" {
			p.addColor, _ = ColorEscape(DefaultAddColor)
		}
	}
	return p
}
