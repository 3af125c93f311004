package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/fractalqb/worddiff"
)

const envPrefix = "WORDDIFF_"

// config is the flat command line configuration. Keys are the long flag
// names. Markers are omitted from the defaults to see if a user set them.
type config struct {
	NoDeleted  bool `koanf:"no-deleted"`
	NoInserted bool `koanf:"no-inserted"`
	NoCommon   bool `koanf:"no-common"`

	Printer     bool   `koanf:"printer"`
	Less        bool   `koanf:"less-mode"`
	Color       string `koanf:"color"`
	DelStart    string `koanf:"start-delete,omitempty"`
	DelStop     string `koanf:"stop-delete,omitempty"`
	AddStart    string `koanf:"start-insert,omitempty"`
	AddStop     string `koanf:"stop-insert,omitempty"`
	LineNumbers int    `koanf:"line-numbers" validate:"min=0"`
	Context     int    `koanf:"context" validate:"min=0"`
	Statistics  bool   `koanf:"statistics"`

	IgnoreCase       bool   `koanf:"ignore-case"`
	IgnoreFormatting bool   `koanf:"ignore-formatting"`
	Delimiters       string `koanf:"delimiters"`
	Whitespace       string `koanf:"white-space,omitempty"`
	Punctuation      bool   `koanf:"punctuation"`
	Paragraphs       bool   `koanf:"paragraph-separator"`
	UTF8             bool   `koanf:"utf8"`

	DiffOptions  []string `koanf:"diff-option"`
	DiffCommand  string   `koanf:"diff-command"`
	BuiltinDiff  bool     `koanf:"builtin-diff"`
	MatchContext int      `koanf:"match-context"`
	DiffContext  int      `koanf:"diff-context"`
	Aggregate    bool     `koanf:"aggregate-changes"`
	Reorder      bool     `koanf:"reorder"`

	TempDir  string `koanf:"temp-dir"`
	LogLevel string `koanf:"log-level" validate:"oneof=debug info warn error"`
}

func defaultConfig() config {
	return config{
		Color:        "never",
		DiffCommand:  "diff",
		MatchContext: 1,
		DiffContext:  4,
		Reorder:      true,
		UTF8:         utf8Locale(),
		LogLevel:     "warn",
	}
}

// utf8Locale reports whether the first set locale variable names a UTF-8
// codeset.
func utf8Locale() bool {
	for _, v := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if l := os.Getenv(v); l != "" {
			l = strings.ToLower(l)
			return strings.Contains(l, "utf-8") || strings.Contains(l, "utf8")
		}
	}
	return false
}

// loadConfig layers defaults, environment and the flags changed on the
// command line.
func loadConfig(flags *pflag.FlagSet) (*koanf.Koanf, config, error) {
	k := koanf.New(".")
	var cfg config
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, cfg, fmt.Errorf("load defaults: %w", err)
	}
	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", "-")
			if k == "diff-option" {
				return k, []string{v}
			}
			return k, v
		},
	}), nil)
	if err != nil {
		return nil, cfg, fmt.Errorf("load environment: %w", err)
	}
	flags.Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			k.Set(f.Name, sv.GetSlice())
		} else {
			k.Set(f.Name, f.Value.String())
		}
	})
	if err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, cfg, fmt.Errorf("read configuration: %w", err)
	}
	if err = validate.Struct(&cfg); err != nil {
		return nil, cfg, err
	}
	return k, cfg, nil
}

// options converts the configuration into comparison options. The koanf
// instance tells which of the markers were set at all.
func (cfg *config) options(k *koanf.Koanf) (opts worddiff.Options, err error) {
	opts = worddiff.Options{
		Punctuation:      cfg.Punctuation,
		Clusters:         cfg.UTF8,
		IgnoreCase:       cfg.IgnoreCase,
		IgnoreFormatting: cfg.IgnoreFormatting,
		Paragraphs:       cfg.Paragraphs,
		NoDeleted:        cfg.NoDeleted,
		NoInserted:       cfg.NoInserted,
		NoCommon:         cfg.NoCommon,
		Printer:          cfg.Printer,
		Less:             cfg.Less,
		LineNumbers:      cfg.LineNumbers,
		Context:          cfg.Context,
		DiffContext:      cfg.DiffContext,
		MatchContext:     cfg.MatchContext,
		Aggregate:        cfg.Aggregate,
		Reorder:          cfg.Reorder,
	}
	if opts.Delimiters, err = escaped("delimiters", cfg.Delimiters); err != nil {
		return opts, err
	}
	if k.Exists("white-space") {
		ws, err := escaped("white-space", cfg.Whitespace)
		if err != nil {
			return opts, err
		}
		opts.Whitespace = &ws
	}
	markers := []struct {
		key string
		val string
		dst **string
	}{
		{"start-delete", cfg.DelStart, &opts.DelStart},
		{"stop-delete", cfg.DelStop, &opts.DelStop},
		{"start-insert", cfg.AddStart, &opts.AddStart},
		{"stop-insert", cfg.AddStop, &opts.AddStop},
	}
	for _, m := range markers {
		if !k.Exists(m.key) {
			continue
		}
		s, err := escaped(m.key, m.val)
		if err != nil {
			return opts, err
		}
		*m.dst = &s
	}
	switch cfg.Color {
	case "never", "":
	case "auto":
		opts.Color = isTerminal(os.Stdout)
	case "always":
		opts.Color = true
	default:
		opts.Color = true
		if opts.DelColor, opts.AddColor, err = worddiff.ParseColors(cfg.Color); err != nil {
			return opts, err
		}
	}
	if opts.Color && opts.DelColor == "" {
		opts.DelColor, opts.AddColor, _ = worddiff.ParseColors("")
	}
	return opts, nil
}

func escaped(key, s string) (string, error) {
	res, err := worddiff.ParseEscapes(s)
	if err != nil {
		return "", fmt.Errorf("option %s: %w", key, err)
	}
	return res, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// differ selects the line differencer. The external program is used if it
// can be found, unless the builtin one is requested.
func (cfg *config) differ() (worddiff.Differ, bool, error) {
	if cfg.BuiltinDiff {
		return worddiff.Builtin{}, false, nil
	}
	var args []string
	for _, o := range cfg.DiffOptions {
		split, err := shlex.Split(o)
		if err != nil {
			return nil, false, fmt.Errorf("diff option '%s': %w", o, err)
		}
		args = append(args, split...)
	}
	path, err := lookPath(cfg.DiffCommand)
	if err != nil {
		if len(args) > 0 {
			return nil, false, fmt.Errorf("diff options given without diff program: %w", err)
		}
		return worddiff.Builtin{}, false, nil
	}
	return worddiff.DiffCommand{Path: path, Args: args}, true, nil
}
