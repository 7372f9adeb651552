package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jcorbin/gobf/internal/tape"
)

// config collects every command setting; it may be loaded from a YAML file,
// with any explicitly given flag taking precedence over the file.
type config struct {
	TapeSize  int           `yaml:"tape_size"`
	Timeout   time.Duration `yaml:"timeout"`
	StepLimit uint64        `yaml:"step_limit"`
	EOF       EOFMode       `yaml:"eof"`
	Trace     bool          `yaml:"trace"`
	Dump      bool          `yaml:"dump"`
	REPL      replConfig    `yaml:"repl"`
}

type replConfig struct {
	Force  bool   `yaml:"force"`
	Prompt string `yaml:"prompt"`
	Tokens bool   `yaml:"tokens"`
	AST    bool   `yaml:"ast"`
	Tape   bool   `yaml:"tape"`
}

func defaultConfig() config {
	return config{
		TapeSize: tape.DefaultSize,
		EOF:      EOFZero,
		REPL: replConfig{
			Prompt: defaultPrompt,
			AST:    true,
		},
	}
}

func (cfg *config) bindFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.TapeSize, "tape-size", cfg.TapeSize, "number of tape cells")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "specify a time limit for each program run")
	fs.Uint64Var(&cfg.StepLimit, "step-limit", cfg.StepLimit, "halt programs after this many steps; 0 for no limit")
	fs.Var(&cfg.EOF, "eof", "what reading after end of input stores: zero, keep, or max")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "enable trace logging")
	fs.BoolVar(&cfg.Dump, "dump", cfg.Dump, "dump the tape to stderr after each program run")
	fs.BoolVar(&cfg.REPL.Force, "repl", cfg.REPL.Force, "run the interactive loop even when given files")
	fs.StringVar(&cfg.REPL.Prompt, "prompt", cfg.REPL.Prompt, "interactive prompt")
}

// decode overlays settings from r onto cfg; keys absent from r are left as
// they were. Unknown keys are an error.
func (cfg *config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// loadFile overlays settings from the named file onto cfg, then re-applies
// any flags explicitly set on fs so that they keep precedence.
func (cfg *config) loadFile(name string, fs *flag.FlagSet) error {
	set := make(map[string]string)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cfg.decode(f); err != nil {
		return fmt.Errorf("config %v: %w", name, err)
	}

	for flagName, value := range set {
		if err := fs.Set(flagName, value); err != nil {
			return err
		}
	}
	return nil
}

func (cfg config) vmOptions() []VMOption {
	return []VMOption{
		WithTapeSize(cfg.TapeSize),
		WithEOF(cfg.EOF),
		WithStepLimit(cfg.StepLimit),
	}
}
