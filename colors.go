package worddiff

import (
	"fmt"
	"io"
	"strings"
)

// Color is a named ANSI color for highlighting changes.
type Color struct {
	Name        string
	Description string
	Escape      string
}

var Colors = []Color{
	{"black", "Black", "\033[0;30m"},
	{"red", "Red", "\033[0;31m"},
	{"green", "Green", "\033[0;32m"},
	{"brown", "Brown", "\033[0;33m"},
	{"blue", "Blue", "\033[0;34m"},
	{"magenta", "Magenta", "\033[0;35m"},
	{"cyan", "Cyan", "\033[0;36m"},
	{"gray", "Gray", "\033[0;37m"},
	{"dgray", "Dark gray", "\033[0;30;1m"},
	{"bred", "Bright red", "\033[0;31;1m"},
	{"bgreen", "Bright green", "\033[0;32;1m"},
	{"yellow", "Yellow", "\033[0;33;1m"},
	{"bblue", "Bright blue", "\033[0;34;1m"},
	{"bmagenta", "Bright magenta", "\033[0;35;1m"},
	{"bcyan", "Bright cyan", "\033[0;36;1m"},
	{"white", "White", "\033[0;37;1m"},
}

const (
	DefaultDelColor = "bred"
	DefaultAddColor = "bgreen"
)

// ColorEscape returns the escape sequence of a named color. Names are
// matched case-insensitively.
func ColorEscape(name string) (string, error) {
	for _, c := range Colors {
		if strings.EqualFold(c.Name, name) {
			return c.Escape, nil
		}
	}
	return "", fmt.Errorf("invalid color '%s'", name)
}

// ParseColors parses a color specification "del[,add]". Omitted or empty
// parts select the default colors.
func ParseColors(spec string) (del, add string, err error) {
	dname, aname, _ := strings.Cut(spec, ",")
	if dname == "" {
		dname = DefaultDelColor
	}
	if aname == "" {
		aname = DefaultAddColor
	}
	if del, err = ColorEscape(dname); err != nil {
		return "", "", err
	}
	if add, err = ColorEscape(aname); err != nil {
		return "", "", err
	}
	return del, add, nil
}

// ListColors writes the table of color names.
func ListColors(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Valid colors for --color:\n"); err != nil {
		return err
	}
	for _, c := range Colors {
		if _, err := fmt.Fprintf(w, "%-15s %s\n", c.Name, c.Description); err != nil {
			return err
		}
	}
	return nil
}
