package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/gobf/internal/ast"
	"github.com/jcorbin/gobf/internal/fileinput"
	"github.com/jcorbin/gobf/internal/flushio"
	"github.com/jcorbin/gobf/internal/logio"
)

func main() {
	ctx := context.Background()

	cfg := defaultConfig()
	var configFile string
	flag.StringVar(&configFile, "config", "", "load settings from a YAML file")
	cfg.bindFlags(flag.CommandLine)
	flag.Parse()

	if configFile != "" {
		if err := cfg.loadFile(configFile, flag.CommandLine); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(2)
		}
	}

	log, err := newLogger(cfg.Trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	var opts = cfg.vmOptions()
	if cfg.Trace {
		sugar := log.Sugar()
		opts = append(opts,
			WithLogf(sugar.Debugf),
			WithTee(&logio.Writer{Logf: sugar.Debugf, Prefix: "out: ", Quote: true}),
		)
	}

	// file programs and the interactive loop share one buffered stdin
	stdin := bufio.NewReader(os.Stdin)

	if names := flag.Args(); len(names) > 0 {
		progs, err := compileFiles(ctx, log, names)
		if err != nil {
			log.Error("load failed", zap.Error(err))
			os.Exit(1)
		}
		if err := runFiles(ctx, log, cfg, progs, opts, stdin, os.Stdout, os.Stderr); err != nil {
			log.Error("run failed", zap.Error(err))
			os.Exit(1)
		}
		if !cfg.REPL.Force {
			return
		}
	}

	r := newREPL(cfg, opts, fileinput.NamedReader(os.Stdin.Name(), stdin), os.Stdout)
	if err := r.run(ctx); err != nil {
		log.Error("repl failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(trace bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	if !trace {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return zcfg.Build()
}

type compileError struct {
	name string
	err  error
}

func (ce compileError) Error() string { return fmt.Sprintf("%v: %v", ce.name, ce.err) }
func (ce compileError) Unwrap() error { return ce.err }

type compileErrors []compileError

func (ces compileErrors) Error() string {
	if len(ces) == 1 {
		return ces[0].Error()
	}
	return fmt.Sprintf("%v (and %v more compile errors)", ces[0], len(ces)-1)
}

// compileFiles loads and compiles every named file concurrently. Read errors
// abort the whole load, while compile errors are logged for every file that
// has one before being returned together.
func compileFiles(ctx context.Context, log *zap.Logger, names []string) ([]Program, error) {
	progs := make([]Program, len(names))
	errs := make([]error, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := fileinput.LoadFile(name)
			if err != nil {
				return err
			}
			prog, err := Compile(src.Text)
			if err != nil {
				errs[i] = compileError{name, err}
				return nil
			}
			progs[i] = prog
			n, depth := ast.Count(prog.Stmts)
			log.Debug("compiled",
				zap.String("name", name),
				zap.Int("tokens", len(prog.Tokens)),
				zap.Int("statements", n),
				zap.Int("depth", depth),
				zap.Int("illegal", len(prog.Illegal)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var ces compileErrors
	for _, err := range errs {
		if ce, ok := err.(compileError); ok {
			log.Error("compile failed", zap.String("name", ce.name), zap.Error(ce.err))
			ces = append(ces, ce)
		}
	}
	if len(ces) > 0 {
		return nil, ces
	}
	return progs, nil
}

// newREPL builds the interactive loop over in; in may be a reader already
// used by runFiles, so that input left unread by file programs reaches it.
func newREPL(cfg config, opts []VMOption, in io.Reader, out io.Writer) *repl {
	r := &repl{
		out:         flushio.NewWriteFlusher(out),
		prompt:      cfg.REPL.Prompt,
		timeout:     cfg.Timeout,
		opts:        opts,
		printTokens: cfg.REPL.Tokens,
		printAST:    cfg.REPL.AST,
		printTape:   cfg.REPL.Tape || cfg.Dump,
	}
	r.in.Queue = append(r.in.Queue, in)
	return r
}

// runFiles runs each program in order, all of them sharing the same input and
// output; tape dumps, when enabled, go to errOut.
func runFiles(
	ctx context.Context, log *zap.Logger, cfg config,
	progs []Program, opts []VMOption,
	stdin io.Reader, stdout, errOut io.Writer,
) error {
	in := bufio.NewReader(stdin)
	out := flushio.NewWriteFlusher(stdout)
	defer out.Flush()

	for i, prog := range progs {
		// opts go last, so that any tee they carry adds to the shared output
		vm := New(WithInput(in), WithOutput(out), VMOptions(opts...))
		vm.Load(prog.Stmts)

		runCtx, cancel := ctx, context.CancelFunc(func() {})
		if cfg.Timeout != 0 {
			runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		err := vm.Run(runCtx)
		cancel()

		log.Debug("ran", zap.Int("program", i), zap.Uint64("steps", vm.Steps()), zap.Error(err))
		if cfg.Dump {
			out.Flush()
			vmDumper{vm: vm, out: errOut}.dump()
		}
		if err != nil {
			return fmt.Errorf("program #%v: %w", i+1, err)
		}
	}
	return nil
}
