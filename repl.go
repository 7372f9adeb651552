package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jcorbin/gobf/internal/ast"
	"github.com/jcorbin/gobf/internal/fileinput"
	"github.com/jcorbin/gobf/internal/flushio"
)

// repl reads one program per line, runs it against a fresh tape, and prints
// its output; errors are reported and the session carries on.
//
// Lines starting with an underscore are commands that toggle what gets
// printed along with each run: _tokens, _ast, and _tape. Anything after the
// first '!' on a line is fed to the program as its input.
type repl struct {
	in      fileinput.Input
	out     flushio.WriteFlusher
	prompt  string
	timeout time.Duration
	opts    []VMOption

	printTokens bool
	printAST    bool
	printTape   bool
}

const defaultPrompt = " >> "

func (r *repl) commands() map[string]*bool {
	return map[string]*bool{
		"_tokens": &r.printTokens,
		"_ast":    &r.printAST,
		"_tape":   &r.printTape,
	}
}

func (r *repl) run(ctx context.Context) error {
	defer r.out.Flush()
	prompt := r.prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		io.WriteString(r.out, prompt)
		if err := r.out.Flush(); err != nil {
			return err
		}

		line, loc, err := r.in.ReadLine()
		if err == io.EOF {
			io.WriteString(r.out, "\n")
			return nil
		} else if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r")

		if line == "" {
			continue
		}
		if flag, isCommand := r.commands()[line]; isCommand {
			*flag = !*flag
			r.printToggle(line[1:], *flag)
			continue
		}
		if err := r.eval(ctx, line); err != nil {
			fmt.Fprintf(r.out, "Error: %v: %v\n", loc, err)
		}
	}
}

func (r *repl) printToggle(name string, enabled bool) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(r.out, "%v %v\n", strings.ToUpper(name[:1])+name[1:], state)
}

func (r *repl) eval(ctx context.Context, line string) error {
	src, input := line, ""
	if i := strings.IndexByte(line, '!'); i >= 0 {
		src, input = line[:i], line[i+1:]
	}

	prog, err := Compile(src)
	if err != nil {
		return err
	}
	if r.printTokens {
		for _, tok := range prog.Tokens {
			fmt.Fprintf(r.out, "  %+v\n", tok)
		}
	}
	if r.printAST {
		if err := ast.Format(r.out, prog.Stmts); err != nil {
			return err
		}
	}

	if r.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var lw lastByteWriter
	vm := New(
		WithInput(strings.NewReader(input)),
		WithOutput(&lw),
		WithTee(r.out),
		VMOptions(r.opts...),
	)
	vm.Load(prog.Stmts)
	err = vm.Run(ctx)
	if lw.n > 0 && lw.last != '\n' {
		io.WriteString(r.out, "\n")
	}
	if r.printTape {
		vmDumper{vm: vm, out: r.out}.dump()
	}
	return err
}

// lastByteWriter discards everything written to it, remembering only how
// much was written and what the final byte was.
type lastByteWriter struct {
	n    int
	last byte
}

func (lw *lastByteWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		lw.n += len(p)
		lw.last = p[len(p)-1]
	}
	return len(p), nil
}

func (lw *lastByteWriter) Flush() error { return nil }
