package worddifftest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatal_example(t *testing.T) {
	const subject = `old: 12 words  9 75% common  1 8% deleted  2 16% changed
new: 13 words  9 69% common  2 15% inserted  2 15% changed
the quick {+brown+} fox [-jumps-] {+jumped+} over the {+lazy+} dog
`
	// Used to create initial reference: Record(t, "", strings.NewReader(subject))
	Fatal(t, "", strings.NewReader(subject))
}

func TestRefRepo_Filename(t *testing.T) {
	rr := RefRepo{Dir: "testdata"}
	assert.Equal(t, filepath.Join("testdata", t.Name()+".golden"), rr.Filename(t, ""))
	assert.Equal(t, filepath.Join("testdata", t.Name(), "out.golden"), rr.Filename(t, "out"))
	assert.Equal(t, filepath.Join("testdata", t.Name(), "out.golden"), rr.Filename(t, "out.golden"))
	rr.Suffix = NoSuffix
	assert.Equal(t, filepath.Join("testdata", t.Name(), "out.txt"), rr.Filename(t, "out.txt"))
}

func TestConfig_mismatch(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultConfig
	cfg.RefFileName = RefRepo{Dir: dir}.Filename
	ref := cfg.RefFileName(t, "")
	require.NoError(t, os.WriteFile(ref, []byte("the quick fox\n"), 0666))

	assert.NoError(t, cfg.compare(t, "", strings.NewReader("the quick fox\n")))

	err := cfg.compare(t, "", strings.NewReader("the quick brown fox\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the quick {+brown+} fox")
	assert.Contains(t, err.Error(), "0 deleted, 1 inserted, 0 changed")

	err = cfg.compare(t, "", strings.NewReader("the  quick fox"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace only")

	cfg.RefFileName = RefRepo{Dir: filepath.Join(dir, "missing")}.Filename
	assert.Error(t, cfg.compare(t, "", strings.NewReader("")))
}
