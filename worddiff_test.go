package worddiff_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalqb/worddiff"
	"github.com/fractalqb/worddiff/worddifftest"
)

func ExampleCompare() {
	var cmpr worddiff.Compare
	res, err := cmpr.Strings(os.Stdout,
		"the quick fox jumps over the dog",
		"the quick brown fox jumped over the lazy dog",
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println()
	res.WriteTo(os.Stdout)
	// Output:
	// the quick {+brown+} fox [-jumps-] {+jumped+} over the {+lazy+} dog
	// old: 7 words  6 85% common  0 0% deleted  1 14% changed
	// new: 9 words  6 66% common  2 22% inserted  1 11% changed
}

func compare(t *testing.T, opts worddiff.Options, old, new string) (string, worddiff.Result) {
	t.Helper()
	var out strings.Builder
	cmpr := worddiff.Compare{Options: opts}
	res, err := cmpr.Strings(&out, old, new)
	require.NoError(t, err)
	return out.String(), res
}

func TestCompare(t *testing.T) {
	widths := []struct{ diff, match int }{{0, 0}, {4, 1}, {2, 2}}
	for _, w := range widths {
		opts := worddiff.Options{DiffContext: w.diff, MatchContext: w.match}
		t.Run(fmt.Sprintf("context %d/%d", w.diff, w.match), func(t *testing.T) {
			t.Run("insert", func(t *testing.T) {
				out, res := compare(t, opts, "the quick fox", "the quick brown fox")
				assert.Equal(t, "the quick {+brown+} fox", out)
				assert.True(t, res.Differences)
				assert.Equal(t, 1, res.Added)
				assert.Equal(t, 0, res.Deleted)
			})
			t.Run("delimiter", func(t *testing.T) {
				opts := opts
				opts.Delimiters = ","
				out, res := compare(t, opts, "a, b", "a b")
				assert.Equal(t, "a[-,-] b", out)
				assert.Equal(t, 1, res.Deleted)
			})
			t.Run("identical", func(t *testing.T) {
				const text = "a\\b \x00c\n\n d\\\x00 e\\\n"
				out, res := compare(t, opts, text, text)
				assert.Equal(t, text, out)
				assert.False(t, res.Differences)
			})
			t.Run("whitespace only", func(t *testing.T) {
				out, res := compare(t, opts, "a  b\n", "a b")
				assert.Equal(t, "a b", out)
				assert.False(t, res.Differences)
			})
		})
	}
}

func TestCompare_carriageReturn(t *testing.T) {
	ws := " \n"
	widths := []struct{ diff, match int }{{0, 0}, {4, 1}}
	for _, w := range widths {
		t.Run(fmt.Sprintf("context %d/%d", w.diff, w.match), func(t *testing.T) {
			t.Run("bytes", func(t *testing.T) {
				opts := worddiff.Options{
					Whitespace:   &ws,
					DiffContext:  w.diff,
					MatchContext: w.match,
				}
				out, res := compare(t, opts, "a\r\nb\n", "a\nb\n")
				assert.True(t, res.Differences)
				assert.Equal(t, "[-a\r-]{+a+}\nb\n", out)
			})
			t.Run("clusters", func(t *testing.T) {
				opts := worddiff.Options{
					Clusters:     true,
					Whitespace:   &ws,
					DiffContext:  w.diff,
					MatchContext: w.match,
				}
				out, res := compare(t, opts, "a\r\nb c\n", "a\r\nb d\n")
				assert.True(t, res.Differences)
				assert.Equal(t, 1, res.OldChanged)
				assert.Equal(t, 1, res.NewChanged)
				assert.Equal(t, "a\r\nb [-c-] {+d+}\n", out)
			})
		})
	}
}

func TestCompare_ignoreCase(t *testing.T) {
	for _, clusters := range []bool{false, true} {
		opts := worddiff.Options{IgnoreCase: true, Clusters: clusters}
		out, res := compare(t, opts, "Hello World", "hello world")
		assert.Equal(t, "hello world", out)
		assert.False(t, res.Differences)
	}
}

func TestCompare_matchContext(t *testing.T) {
	const (
		old = "a b c d e f g h"
		new = "a X c d e f Y h"
	)
	out, _ := compare(t, worddiff.Options{DiffContext: 4, MatchContext: 1}, old, new)
	assert.Equal(t, "a [-b-] {+X+} c d e f [-g-] {+Y+} h", out)
	out, _ = compare(t, worddiff.Options{DiffContext: 4, MatchContext: 1, Aggregate: true}, old, new)
	assert.Equal(t, "a [-b c d e f g-] {+X c d e f Y+} h", out)
}

func TestCompare_diffCommand(t *testing.T) {
	path, err := exec.LookPath("diff")
	if err != nil {
		t.Skip("no diff program:", err)
	}
	const (
		old = "a b c d e f g h\ni j k l m n o p"
		new = "a X c d e f Y h\ni j k l Z n o p q"
	)
	for _, aggregate := range []bool{false, true} {
		opts := worddiff.Options{DiffContext: 4, MatchContext: 1, Aggregate: aggregate}
		want, wantRes := compare(t, opts, old, new)
		var out strings.Builder
		cmpr := worddiff.Compare{Options: opts, Differ: worddiff.DiffCommand{Path: path}}
		res, err := cmpr.Strings(&out, old, new)
		require.NoError(t, err)
		assert.Equal(t, want, out.String())
		assert.Equal(t, wantRes, res)
	}
}

func TestCompare_presentation(t *testing.T) {
	const (
		old = "the quick fox"
		new = "the quick brown fox"
	)
	sep := strings.Repeat("=", 70)
	t.Run("color", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{Color: true}, old, new)
		assert.Equal(t, "the quick \033[0;32;1mbrown\033[0m fox", out)
	})
	t.Run("printer", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{Printer: true}, "a x", "a y")
		assert.Equal(t, "a _\bx y\by", out)
	})
	t.Run("less", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{Less: true}, "a x z b", "a b")
		assert.Equal(t, "a _\bx_\b _\bz b", out)
	})
	t.Run("no common", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{NoCommon: true}, old, new)
		assert.Equal(t, sep+"\n {+brown+}\n"+sep+"\n", out)
	})
	t.Run("only inserted", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{NoCommon: true, NoDeleted: true},
			"a b c", "a x c y")
		assert.Equal(t, sep+"\n x\n"+sep+"\n y\n"+sep+"\n", out)
	})
	t.Run("line numbers", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{LineNumbers: 2}, "a\nb", "a\nc")
		assert.Equal(t, " 1:1  a\n 2:1  [-b-]\n 2:2  {+c+}", out)
	})
	t.Run("context lines", func(t *testing.T) {
		out, _ := compare(t, worddiff.Options{Context: 1},
			"l1\nl2\nl3\nl4 x\nl5\nl6\nl7",
			"l1\nl2\nl3\nl4 y\nl5\nl6\nl7",
		)
		assert.Equal(t, "l3\nl4 [-x-] {+y+}\nl5\n", out)
	})
	t.Run("reorder", func(t *testing.T) {
		opts := worddiff.Options{Reorder: true}
		out, _ := compare(t, opts, "a\nb", "a c")
		assert.Equal(t, "a {+c+}\n[-b-]", out)
		opts.Reorder = false
		out, _ = compare(t, opts, "a\nb", "a c")
		assert.Equal(t, "a\n[-b-] {+c+}", out)
	})
}

func TestCompare_statistics(t *testing.T) {
	_, res := compare(t, worddiff.Options{}, "the quick fox", "the quick brown fox")
	var buf bytes.Buffer
	_, err := res.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t,
		"old: 3 words  3 100% common  0 0% deleted  0 0% changed\n"+
			"new: 4 words  3 75% common  1 25% inserted  0 0% changed\n",
		buf.String(),
	)
	_, res = compare(t, worddiff.Options{}, "", "")
	buf.Reset()
	res.WriteTo(&buf)
	assert.Contains(t, buf.String(), "old: 0 words  0 0% common")
}

func TestCompare_badOptions(t *testing.T) {
	cmpr := worddiff.Compare{Options: worddiff.Options{MatchContext: 3}}
	_, err := cmpr.Strings(&strings.Builder{}, "a", "b")
	assert.Error(t, err)
}

func TestCompare_Files(t *testing.T) {
	var out strings.Builder
	cmpr := worddiff.Compare{Options: worddiff.Options{Punctuation: true}}
	res, err := cmpr.Files(&out, "testdata/greeting-old.txt", "testdata/greeting-new.txt")
	require.NoError(t, err)
	assert.True(t, res.Differences)
	assert.Equal(t, "Hello, world[-.-]{+!+}\nThis is [-a-] {+the+} test.\n", out.String())
	assert.Equal(t, 0, res.Deleted)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 2, res.OldChanged)
	assert.Equal(t, 2, res.NewChanged)

	_, err = cmpr.Files(&out, "testdata/greeting-old.txt", "testdata/missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompare_golden(t *testing.T) {
	old, err := os.ReadFile("testdata/greeting-old.txt")
	require.NoError(t, err)
	new, err := os.ReadFile("testdata/greeting-new.txt")
	require.NoError(t, err)
	var out bytes.Buffer
	cmpr := worddiff.Compare{
		Options: worddiff.Options{
			LineNumbers: worddiff.DefaultLineNumberWidth,
			Punctuation: true,
		},
	}
	res, err := cmpr.Readers(&out, bytes.NewReader(old), bytes.NewReader(new))
	require.NoError(t, err)
	assert.True(t, res.Differences)
	worddifftest.Fatal(t, "", &out)
}
