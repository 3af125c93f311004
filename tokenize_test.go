package worddiff

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func memScratch(t *testing.T) *Scratch {
	sc := NewScratch(afero.NewMemMapFs(), "")
	t.Cleanup(func() { sc.Cleanup() })
	return sc
}

func byteTokenizer(t *testing.T, delims string) *Tokenizer {
	bc, err := NewByteClasses([]byte(delims), nil, false)
	require.NoError(t, err)
	return &Tokenizer{Bytes: bc}
}

func tokenizeString(t *testing.T, tok *Tokenizer, sc *Scratch, role, text string) *InputFile {
	f, err := NewInputFile(sc, role, role)
	require.NoError(t, err)
	require.NoError(t, tok.Tokenize(strings.NewReader(text), f))
	return f
}

// replayAll reads back the sequences of f in text order.
func replayAll(t *testing.T, f *InputFile) (text string, tokens []string) {
	require.NoError(t, f.startReplay())
	var sb strings.Builder
	for i := 0; i <= f.Words; i++ {
		run, err := f.nextRun()
		require.NoError(t, err)
		sb.Write(run)
		if i == f.Words {
			break
		}
		tok, err := f.nextToken()
		require.NoError(t, err)
		sb.Write(tok)
		tokens = append(tokens, string(tok))
	}
	return sb.String(), tokens
}

func TestTokenize_roundTrip(t *testing.T) {
	texts := []string{
		"",
		"   ",
		"word",
		"  two words \n",
		"a\\b \x00c\n\n d\\\x00 e\\",
		"tab\tand\r\nCRLF\v\f",
	}
	for _, translit := range []bool{false, true} {
		for _, text := range texts {
			sc := memScratch(t)
			tok := byteTokenizer(t, ",")
			tok.Transliterate = translit
			f := tokenizeString(t, tok, sc, "old", text)
			back, _ := replayAll(t, f)
			assert.Equal(t, text, back, "transliterate=%t", translit)
		}
	}
}

func TestTokenize_words(t *testing.T) {
	sc := memScratch(t)
	f := tokenizeString(t, byteTokenizer(t, ","), sc, "old", "a, b,,c ")
	assert.Equal(t, 6, f.Words)
	forms, err := f.compareForms()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", ",", "b", ",", ",", "c"}, forms)
	_, tokens := replayAll(t, f)
	assert.Equal(t, forms, tokens)
}

func TestTokenize_newlineDelimiter(t *testing.T) {
	sc := memScratch(t)
	tok := byteTokenizer(t, "\n")
	require.True(t, tok.NeedsTransliteration())
	f := tokenizeString(t, tok, sc, "old", "a\nb\\\n")
	assert.Equal(t, 4, f.Words)
	forms, err := f.compareForms()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", `\n`, `b\\`, `\n`}, forms)
	back, tokens := replayAll(t, f)
	assert.Equal(t, "a\nb\\\n", back)
	assert.Equal(t, []string{"a", "\n", "b\\", "\n"}, tokens)
}

func TestTokenize_crlfCluster(t *testing.T) {
	ws := " \n"
	cc, err := NewClusterClasses(norm.NFD, "", &ws, false)
	require.NoError(t, err)
	tok := &Tokenizer{Clusters: cc}
	require.True(t, tok.NeedsTransliteration())
	sc := memScratch(t)
	f := tokenizeString(t, tok, sc, "old", "a\r\nb c\n")
	assert.Equal(t, 2, f.Words)
	forms, err := f.compareForms()
	require.NoError(t, err)
	assert.Equal(t, []string{"a\r\\nb", "c"}, forms)
	back, tokens := replayAll(t, f)
	assert.Equal(t, "a\r\nb c\n", back)
	assert.Equal(t, []string{"a\r\nb", "c"}, tokens)
}

func TestScanLF(t *testing.T) {
	sc := memScratch(t)
	bc, err := NewByteClasses(nil, []byte(" \n"), false)
	require.NoError(t, err)
	f := tokenizeString(t, &Tokenizer{Bytes: bc}, sc, "old", "a\r\nb\r")
	forms, err := f.compareForms()
	require.NoError(t, err)
	assert.Equal(t, []string{"a\r", "b\r"}, forms)
}

func TestTokenize_ignoreCase(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		sc := memScratch(t)
		tok := byteTokenizer(t, "")
		tok.IgnoreCase = true
		f := tokenizeString(t, tok, sc, "old", "Hello WORLD")
		forms, err := f.compareForms()
		require.NoError(t, err)
		assert.Equal(t, []string{"hello", "world"}, forms)
		_, tokens := replayAll(t, f)
		assert.Equal(t, []string{"Hello", "WORLD"}, tokens)
	})
	t.Run("clusters", func(t *testing.T) {
		sc := memScratch(t)
		cc, err := NewClusterClasses(norm.NFD, "", nil, false)
		require.NoError(t, err)
		tok := &Tokenizer{Clusters: cc, IgnoreCase: true}
		f := tokenizeString(t, tok, sc, "old", "Stra\u00dfe \u00c4RGER")
		forms, err := f.compareForms()
		require.NoError(t, err)
		assert.Equal(t, []string{"strasse", "a\u0308rger"}, forms)
	})
}

func TestTokenize_clusters(t *testing.T) {
	cc, err := NewClusterClasses(norm.NFD, ",", nil, false)
	require.NoError(t, err)
	tok := &Tokenizer{Clusters: cc}
	sc := memScratch(t)
	old := tokenizeString(t, tok, sc, "old", "caf\u00e9,\u3000x")
	new := tokenizeString(t, tok, sc, "new", "cafe\u0301,\u3000x")
	of, err := old.compareForms()
	require.NoError(t, err)
	nf, err := new.compareForms()
	require.NoError(t, err)
	assert.Equal(t, of, nf)
	assert.Equal(t, 3, old.Words)
	back, _ := replayAll(t, old)
	assert.Equal(t, "caf\u00e9,\u3000x", back)
}

func TestTokenize_paragraphs(t *testing.T) {
	tok := byteTokenizer(t, "")
	tok.Paragraphs = true
	t.Run("between words", func(t *testing.T) {
		sc := memScratch(t)
		f := tokenizeString(t, tok, sc, "old", "a\n\n\nb")
		forms, err := f.compareForms()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "", "b"}, forms)
		back, _ := replayAll(t, f)
		assert.Equal(t, "a\n\n\nb", back)
	})
	t.Run("leading", func(t *testing.T) {
		sc := memScratch(t)
		f := tokenizeString(t, tok, sc, "old", "\n\nb")
		assert.Equal(t, 2, f.Words)
		back, tokens := replayAll(t, f)
		assert.Equal(t, "\n\nb", back)
		assert.Equal(t, []string{"", "b"}, tokens)
	})
	t.Run("single break", func(t *testing.T) {
		sc := memScratch(t)
		f := tokenizeString(t, tok, sc, "old", "a\nb")
		assert.Equal(t, 2, f.Words)
	})
}
