package worddiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEscapes(t *testing.T) {
	for in, out := range map[string]string{
		``:               "",
		`plain`:          "plain",
		`\n\r\t\b\f\a\v`: "\n\r\t\b\f\a\v",
		`\\ \' \" \?`:    "\\ ' \" ?",
		`\x41\x4a\x7`:    "AJ\x07",
		`\x4142`:         "A42",
		`\0\012\101\29`:  "\x00\nA\x029",
		`caf\u00e9`:      "caf\u00e9",
		`\U0001F600`:     "\U0001F600",
		`\q`:             "q",
		`[-\n`:           "[-\n",
	} {
		res, err := ParseEscapes(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, out, res, "input %q", in)
	}
}

func TestParseEscapes_errors(t *testing.T) {
	for _, in := range []string{
		`\`,
		`abc\`,
		`\xg`,
		`\u12`,
		`\U0011FFFF`,
		`\ud800`,
	} {
		_, err := ParseEscapes(in)
		var eerr EscapeError
		assert.ErrorAs(t, err, &eerr, "input %q", in)
	}
}
