// Package worddifftest supports golden file tests whose mismatches are
// reported as word differences.
//
// Example compares output with testdata/TestReport.golden:
//
//	func TestReport(t *testing.T) {
//		var buf bytes.Buffer
//		writeReport(&buf)
//		worddifftest.Fatal(t, "", &buf)
//	}
package worddifftest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fractalqb/worddiff"
)

// When this environment variable is set to a regexp and the name of the
// current test matches, calls to Error or Fatal record the subject as new
// golden data instead of comparing it. E.g.
//
//	WORDDIFFTEST_RECORD=TestRecording go test .
const RecordEnv = "WORDDIFFTEST_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go
// help test).
const GoTestdataDir = "testdata"

const (
	StdSuffix = ".golden"
	NoSuffix  = "\x00"
)

func Error(t testing.TB, hint string, subj io.Reader) error {
	return defaultConfig.Error(t, hint, subj)
}

func Fatal(t testing.TB, hint string, subj io.Reader) {
	defaultConfig.Fatal(t, hint, subj)
}

func Record(t testing.TB, hint string, subj io.Reader) {
	defaultConfig.Record(t, hint, subj)
}

type RefRepo struct {
	Dir    string
	Suffix string
}

func (rr RefRepo) Filename(t testing.TB, hint string) string {
	suffix := rr.Suffix
	switch suffix {
	case "":
		suffix = StdSuffix
	case NoSuffix:
		suffix = ""
	}
	if hint == "" {
		return filepath.Join(rr.Dir, t.Name()+suffix)
	}
	if suffix == "" || strings.HasSuffix(hint, suffix) {
		return filepath.Join(rr.Dir, t.Name(), hint)
	}
	return filepath.Join(rr.Dir, t.Name(), hint+suffix)
}

type Config struct {
	RefFileName     func(t testing.TB, hint string) string
	RecordOverwrite bool
	// Options for the word difference shown on mismatch
	Options worddiff.Options
}

var defaultConfig = Config{
	RefFileName: RefRepo{Dir: GoTestdataDir}.Filename,
	Options: worddiff.Options{
		DiffContext:  2,
		MatchContext: 1,
		Context:      2,
	},
}

func (cfg Config) Error(t testing.TB, hint string, subj io.Reader) error {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, subj)
		return nil
	}
	err := cfg.compare(t, hint, subj)
	if err != nil {
		t.Error(err)
	}
	return err
}

func (cfg Config) Fatal(t testing.TB, hint string, subj io.Reader) {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, subj)
		return
	}
	if err := cfg.compare(t, hint, subj); err != nil {
		t.Fatal(err)
	}
}

func recordTest(t testing.TB) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("worddifftest: invalid regexp '%s' in %s, not recording: %s", rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

func (cfg *Config) compare(t testing.TB, hint string, subj io.Reader) error {
	reffile := cfg.RefFileName(t, hint)
	ref, err := os.ReadFile(reffile)
	if os.IsNotExist(err) {
		t.Logf("to record a golden file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv,
			t.Name(),
		)
		return fmt.Errorf("golden file %s does not exist", reffile)
	} else if err != nil {
		return err
	}
	got, err := io.ReadAll(subj)
	if err != nil {
		return err
	}
	if bytes.Equal(ref, got) {
		return nil
	}
	var diff strings.Builder
	cmpr := worddiff.Compare{Options: cfg.Options}
	res, err := cmpr.Readers(&diff, bytes.NewReader(ref), bytes.NewReader(got))
	if err != nil {
		return fmt.Errorf("mismatch with %s, cannot show differences: %w", reffile, err)
	}
	if !res.Differences {
		return fmt.Errorf("mismatch with %s in whitespace only", reffile)
	}
	return fmt.Errorf("mismatch with %s (%d deleted, %d inserted, %d changed words):\n%s",
		reffile,
		res.Deleted,
		res.Added,
		res.NewChanged,
		diff.String(),
	)
}

func (cfg Config) Record(t testing.TB, hint string, subj io.Reader) {
	t.Helper()
	reffile := cfg.RefFileName(t, hint)
	if _, err := os.Stat(reffile); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("worddifftest: golden file '%s' already exists", reffile)
	}
	if err := os.MkdirAll(filepath.Dir(reffile), 0777); err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(subj)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(reffile, data, 0666); err != nil {
		t.Fatal(err)
	}
	t.Errorf("worddifftest recorder wrote: %s", reffile)
}
