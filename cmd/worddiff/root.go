package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fractalqb/worddiff"
)

var (
	errDifferences = errors.New("texts differ")
	validate       = validator.New()
	lookPath       = defaultLookPath
)

func defaultLookPath(file string) (string, error) { return exec.LookPath(file) }

func init() {
	rootCmd.RunE = runCompare
	flags := rootCmd.Flags()
	def := defaultConfig()

	flags.BoolP("no-deleted", "1", false, "Do not print deleted words")
	flags.BoolP("no-inserted", "2", false, "Do not print inserted words")
	flags.BoolP("no-common", "3", false, "Do not print common words")
	flags.BoolP("printer", "p", false, "Use overstriking and bold text")
	flags.BoolP("less-mode", "l", false, "As -p but also overstrike whitespace")
	flags.StringP("color", "c", def.Color,
		"Color mode never, auto, always or del[,add] colors; list shows the colors")
	rootCmd.Flags().Lookup("color").NoOptDefVal = "always"
	flags.StringP("start-delete", "w", worddiff.DefaultDelStart, "String to mark begin of deleted text")
	flags.StringP("stop-delete", "x", worddiff.DefaultDelStop, "String to mark end of deleted text")
	flags.StringP("start-insert", "y", worddiff.DefaultAddStart, "String to mark begin of inserted text")
	flags.StringP("stop-insert", "z", worddiff.DefaultAddStop, "String to mark end of inserted text")
	flags.IntP("line-numbers", "L", 0, "Prefix lines with line numbers of the given width")
	rootCmd.Flags().Lookup("line-numbers").NoOptDefVal = fmt.Sprint(worddiff.DefaultLineNumberWidth)
	flags.IntP("context", "C", 0, "Show only changes with the given number of context lines")
	flags.BoolP("statistics", "s", false, "Print word statistics to stderr")

	flags.BoolP("ignore-case", "i", false, "Ignore differences in case")
	flags.BoolP("ignore-formatting", "I", false, "Ignore formatting differences of Unicode characters")
	flags.StringP("delimiters", "d", "", "Characters that are words of their own")
	flags.StringP("white-space", "W", "", "Characters that separate words")
	flags.BoolP("punctuation", "P", false, "Use punctuation characters as delimiters")
	flags.Bool("paragraph-separator", false, "Show changes of empty lines between paragraphs")
	flags.Bool("utf8", def.UTF8, "Compare UTF-8 grapheme clusters")

	flags.StringArrayP("diff-option", "D", nil, "Pass option to the diff program")
	flags.String("diff-command", def.DiffCommand, "Diff program to run")
	flags.Bool("builtin-diff", false, "Use the builtin line differencer")
	flags.IntP("match-context", "m", def.MatchContext, "Number of words that must match around a word")
	flags.Int("diff-context", def.DiffContext, "Width of the word windows compared by diff")
	flags.BoolP("aggregate-changes", "A", false, "Do not split changes at matching words")
	flags.Bool("reorder", def.Reorder, "Show insertions first if the deletion starts a line")

	flags.String("temp-dir", "", "Directory for temporary files")
	flags.String("log-level", def.LogLevel, "Log level: debug, info, warn or error")
}

var rootCmd = struct {
	cobra.Command
	scratch atomic.Pointer[worddiff.Scratch]
}{
	Command: cobra.Command{
		Use:           "worddiff [flags] <old file> <new file>",
		Short:         "Compare two texts word by word",
		Args:          cobra.RangeArgs(0, 2),
		SilenceErrors: true,
		SilenceUsage:  true,
	},
}

func runCompare(cmd *cobra.Command, args []string) (err error) {
	k, cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Color == "list" {
		return worddiff.ListColors(cmd.OutOrStdout())
	}
	if len(args) != 2 {
		return fmt.Errorf("need old and new file, have %d arguments", len(args))
	}
	opts, err := cfg.options(k)
	if err != nil {
		return err
	}
	differ, external, err := cfg.differ()
	if err != nil {
		return err
	}
	var fs afero.Fs = afero.NewMemMapFs()
	if external {
		fs = afero.NewOsFs()
	}
	logger.Debug("start", "differ", fmt.Sprintf("%T", differ), "scratch", fs.Name())
	scratch := worddiff.NewScratch(fs, cfg.TempDir)
	rootCmd.scratch.Store(scratch)
	defer func() {
		if cerr := scratch.Cleanup(); err == nil {
			err = cerr
		}
	}()

	if args[0] == "-" && args[1] == "-" {
		return errors.New("only one input may be standard input")
	}
	cmpr := worddiff.Compare{
		Options: opts,
		Differ:  differ,
		Scratch: scratch,
		Log:     logger,
	}
	var res worddiff.Result
	if args[0] != "-" && args[1] != "-" {
		res, err = cmpr.Files(cmd.OutOrStdout(), args[0], args[1])
	} else {
		res, err = compareInputs(&cmpr, cmd, args[0], args[1])
	}
	if err != nil {
		return err
	}
	if cfg.Statistics {
		res.Statistics.WriteTo(cmd.ErrOrStderr())
	}
	if res.Differences {
		return errDifferences
	}
	return nil
}

func compareInputs(cmpr *worddiff.Compare, cmd *cobra.Command, oldName, newName string) (worddiff.Result, error) {
	oldRd, oldClose, err := openInput(oldName, cmd.InOrStdin())
	if err != nil {
		return worddiff.Result{}, err
	}
	defer oldClose()
	newRd, newClose, err := openInput(newName, cmd.InOrStdin())
	if err != nil {
		return worddiff.Result{}, err
	}
	defer newClose()
	return cmpr.Readers(cmd.OutOrStdout(), oldRd, newRd)
}

func openInput(name string, stdin io.Reader) (io.Reader, func() error, error) {
	if name == "-" {
		return stdin, func() error { return nil }, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
