package worddiff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Compare performs word-wise comparisons of two texts. A zero value is valid
// for use and can be reused for more than one comparison. It must not be
// used concurrently.
type Compare struct {
	Options

	// Differ compares the word sequences. Builtin is used if nil.
	Differ Differ
	// Scratch holds the intermediate files. If nil, each comparison uses
	// its own scratch storage, in memory for the Builtin differ and in the
	// temporary directory of the OS otherwise.
	Scratch *Scratch
	Log     *log.Logger
}

// Result of a comparison.
type Result struct {
	Statistics
	Differences bool
}

func (c *Compare) Strings(out io.Writer, old, new string) (Result, error) {
	return c.run(out,
		"old", strings.NewReader(old),
		"new", strings.NewReader(new),
	)
}

// Readers compares the texts read from old and new up to EOF.
func (c *Compare) Readers(out io.Writer, old, new io.Reader) (Result, error) {
	return c.run(out, "old", old, "new", new)
}

// Files compares two named files of the OS file system.
func (c *Compare) Files(out io.Writer, oldName, newName string) (Result, error) {
	or, err := os.Open(oldName)
	if err != nil {
		return Result{}, err
	}
	defer or.Close()
	nr, err := os.Open(newName)
	if err != nil {
		return Result{}, err
	}
	defer nr.Close()
	return c.run(out, oldName, or, newName, nr)
}

func (c *Compare) run(
	out io.Writer,
	oldName string, oldRd io.Reader,
	newName string, newRd io.Reader,
) (res Result, err error) {
	if err = c.Options.Validate(); err != nil {
		return res, err
	}
	tok, err := c.Options.tokenizer()
	if err != nil {
		return res, err
	}
	logger := c.Log
	if logger == nil {
		logger = log.New(io.Discard)
	}
	differ := c.Differ
	if differ == nil {
		differ = Builtin{}
	}
	sc := c.Scratch
	if sc == nil {
		if _, ok := differ.(Builtin); ok {
			sc = NewScratch(afero.NewMemMapFs(), "")
		} else {
			sc = NewScratch(afero.NewOsFs(), "")
		}
		defer func() {
			if cerr := sc.Cleanup(); err == nil {
				err = cerr
			}
		}()
	}

	oldF, err := c.input(sc, tok, oldName, "old", oldRd, logger)
	if err != nil {
		return res, err
	}
	defer oldF.release(sc)
	newF, err := c.input(sc, tok, newName, "new", newRd, logger)
	if err != nil {
		return res, err
	}
	defer newF.release(sc)

	bout := bufio.NewWriter(out)
	eng := newEngine(c.Options.presentation(), newPrintBuffer(bout, c.Context), oldF, newF)
	if err = eng.begin(); err != nil {
		return res, err
	}
	red := reducer{
		differ:    differ,
		scratch:   sc,
		log:       logger,
		match:     c.MatchContext,
		aggregate: c.Aggregate,
		emit: func(cmd Command) error {
			logger.Debug("change", "command", cmd)
			return eng.apply(cmd)
		},
	}
	if err = red.run(oldF, newF, c.DiffContext); err != nil {
		return res, err
	}
	if err = eng.end(); err != nil {
		return res, err
	}
	if err = bout.Flush(); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	res.Statistics = eng.stats
	res.Differences = eng.differences
	return res, nil
}

func (c *Compare) input(
	sc *Scratch,
	tok *Tokenizer,
	name, role string,
	rd io.Reader,
	logger *log.Logger,
) (*InputFile, error) {
	f, err := NewInputFile(sc, name, role)
	if err != nil {
		return nil, err
	}
	if err = tok.Tokenize(rd, f); err != nil {
		return nil, errors.Join(err, f.release(sc))
	}
	logger.Debug("tokenized", "file", name, "words", f.Words)
	return f, nil
}
