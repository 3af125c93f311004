package worddiff

import (
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Category is the class of a character as seen by the tokenizer.
type Category uint8

const (
	Other Category = iota
	Delimiter
	Whitespace
)

func (c Category) String() string {
	switch c {
	case Other:
		return "other"
	case Delimiter:
		return "delimiter"
	case Whitespace:
		return "whitespace"
	}
	return "category?"
}

var ErrOverlap = errors.New("whitespace and delimiter sets overlap")

type bitmap [4]uint64

func (bm *bitmap) set(c byte) { bm[c>>6] |= 1 << (c & 63) }

func (bm *bitmap) test(c byte) bool { return bm[c>>6]&(1<<(c&63)) != 0 }

func (bm *bitmap) overlaps(o *bitmap) bool {
	for i := range bm {
		if bm[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// ByteClasses classifies single bytes. Use NewByteClasses to get a
// ready-to-use instance.
type ByteClasses struct {
	delims bitmap
	spaces bitmap
}

// NewByteClasses sets up byte classification. When spaces is nil the C
// locale's isspace characters that are not delimiters are used as
// whitespace. With punct all ispunct characters become delimiters.
func NewByteClasses(delims, spaces []byte, punct bool) (*ByteClasses, error) {
	bc := new(ByteClasses)
	for _, c := range delims {
		bc.delims.set(c)
	}
	if punct {
		for c := 0; c < 256; c++ {
			if isPunctC(byte(c)) {
				bc.delims.set(byte(c))
			}
		}
	}
	if spaces == nil {
		for c := 0; c < 256; c++ {
			if isSpaceC(byte(c)) && !bc.delims.test(byte(c)) {
				bc.spaces.set(byte(c))
			}
		}
		return bc, nil
	}
	for _, c := range spaces {
		bc.spaces.set(c)
	}
	if bc.delims.overlaps(&bc.spaces) {
		return nil, ErrOverlap
	}
	return bc, nil
}

func (bc *ByteClasses) Classify(c byte) Category {
	switch {
	case bc.delims.test(c):
		return Delimiter
	case bc.spaces.test(c):
		return Whitespace
	}
	return Other
}

func isSpaceC(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isPunctC(c byte) bool {
	return c > ' ' && c < 0x7f && !('0' <= c && c <= '9') &&
		!('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z')
}

// ClusterClasses classifies grapheme clusters by their normalized form.
// The lists are sorted once on construction and never change afterwards.
type ClusterClasses struct {
	form     norm.Form
	delims   []string
	spaces   []string
	spaceSet bool
	punct    bool
}

// NewClusterClasses sets up cluster classification. Both option strings are
// split into grapheme clusters and normalized with form. When spaces is nil
// Unicode white space that is not a delimiter is used.
func NewClusterClasses(form norm.Form, delims string, spaces *string, punct bool) (*ClusterClasses, error) {
	cc := &ClusterClasses{
		form:   form,
		delims: clusterKeys(form, delims),
		punct:  punct,
	}
	if spaces == nil {
		return cc, nil
	}
	cc.spaces = clusterKeys(form, *spaces)
	cc.spaceSet = true
	if sortedOverlap(cc.delims, cc.spaces) {
		return nil, ErrOverlap
	}
	if punct {
		for _, s := range cc.spaces {
			if isPunctKey(s) {
				return nil, ErrOverlap
			}
		}
	}
	return cc, nil
}

func clusterKeys(form norm.Form, s string) (keys []string) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		keys = append(keys, form.String(g.Str()))
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func sortedOverlap(a, b []string) bool {
	for len(a) > 0 && len(b) > 0 {
		switch strings.Compare(a[0], b[0]) {
		case 0:
			return true
		case -1:
			a = a[1:]
		default:
			b = b[1:]
		}
	}
	return false
}

// Classify expects key to be normalized with the form of cc.
func (cc *ClusterClasses) Classify(key string) Category {
	if _, ok := slices.BinarySearch(cc.delims, key); ok {
		return Delimiter
	}
	if cc.punct && isPunctKey(key) {
		return Delimiter
	}
	if cc.spaceSet {
		if _, ok := slices.BinarySearch(cc.spaces, key); ok {
			return Whitespace
		}
		return Other
	}
	if key != "" && strings.IndexFunc(key, notSpace) < 0 {
		return Whitespace
	}
	return Other
}

func notSpace(r rune) bool { return !unicode.IsSpace(r) }

func isPunctKey(key string) bool {
	if key == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.In(r, unicode.P, unicode.S)
}
