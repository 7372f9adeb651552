package main

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/jcorbin/gobf/internal/ast"
	"github.com/jcorbin/gobf/internal/panicerr"
	"github.com/jcorbin/gobf/internal/parser"
	"github.com/jcorbin/gobf/internal/scanner"
	"github.com/jcorbin/gobf/internal/tape"
	"github.com/jcorbin/gobf/internal/token"
)

// Program is the result of scanning and parsing one source text.
type Program struct {
	Source  string
	Tokens  []token.Token
	Stmts   []ast.Statement
	Illegal []token.Token // dropped during parsing
}

// Compile scans and parses src. Errors are scanner.ErrEmptySource or a
// *parser.Error; no partial Program is returned with an error.
func Compile(src string) (Program, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		return Program{}, err
	}
	var p parser.Parser
	stmts, err := p.Parse(toks)
	if err != nil {
		return Program{}, err
	}
	return Program{
		Source:  src,
		Tokens:  toks,
		Stmts:   stmts,
		Illegal: p.Illegal,
	}, nil
}

// New creates a VM with defaults, then applies any given options.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	return &vm
}

// Load sets the statements to run; the tree is only ever read, so it may be
// shared by any number of VMs.
func (vm *VM) Load(stmts []ast.Statement) { vm.prog = stmts }

// Run executes the loaded program until its top level statements are
// exhausted. The context is checked between statements; a done context
// aborts the run with its error. Output is flushed before returning.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		vm.run(ctx)
		return nil
	})
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	} else if panicerr.IsPanic(err) {
		vm.logf("!", "%s", panicerr.PanicStack(err))
	}
	return err
}

// Reset discards the VM's tape, so that the next Run starts fresh.
func (vm *VM) Reset() {
	vm.tape = nil
	vm.steps = 0
}

// Tape returns the VM's tape, nil before the first Run.
func (vm *VM) Tape() *tape.Tape { return vm.tape }

// Steps returns how many statements and loop passes the last Run executed.
func (vm *VM) Steps() uint64 { return vm.steps }

// Result is the observable outcome of Execute.
type Result struct {
	Output []byte
	Tape   []byte
	Ptr    int
	Steps  uint64
}

// Execute runs stmts on a fresh VM built from opts, collecting all output
// along with the final tape and pointer. Any output option still receives
// output as well. A partial Result is returned alongside any run error.
func Execute(ctx context.Context, stmts []ast.Statement, opts ...VMOption) (Result, error) {
	var out bytes.Buffer
	vm := New(VMOptions(opts...), withTee(&out))
	defer vm.Close()
	vm.Load(stmts)
	err := vm.Run(ctx)
	res := Result{Output: out.Bytes(), Steps: vm.steps}
	if vm.tape != nil {
		res.Tape = vm.tape.Snapshot()
		res.Ptr = vm.tape.Ptr()
	}
	return res, err
}

func WithInput(r io.Reader) VMOption      { return withInput(r) }
func WithOutput(w io.Writer) VMOption     { return withOutput(w) }
func WithTee(w io.Writer) VMOption        { return withTee(w) }
func WithTapeSize(size int) VMOption      { return withTapeSize(size) }
func WithTape(t *tape.Tape) VMOption      { return withTape(t) }
func WithStepLimit(limit uint64) VMOption { return withStepLimit(limit) }
func WithEOF(mode EOFMode) VMOption       { return mode }
func WithCloser(cl io.Closer) VMOption    { return closerOption{cl} }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

type closerOption struct{ io.Closer }

func (cl closerOption) apply(vm *VM) { vm.closers = append(vm.closers, cl.Closer) }
