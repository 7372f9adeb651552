package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/gobf/internal/ast"
	"github.com/jcorbin/gobf/internal/tape"
)

//// Environment

// VM walks a parsed statement tree against a tape of byte cells. The machine
// has two pieces of state: the tape, and the data pointer into it; both live
// in a tape.Tape that the VM owns for the duration of a run.
//
// Input and output are byte streams; input is only consulted by the read
// instruction, and is the only place where a run may block.
type VM struct {
	ioCore

	prog []ast.Statement

	tape     *tape.Tape
	tapeSize int

	eof       EOFMode
	steps     uint64
	stepLimit uint64
}

//// Instructions

// Every instruction is one statement in the tree; there are four leaf kinds
// and one compound kind. Leaf instructions never fail: the pointer clamps at
// either end of the tape, and cell arithmetic wraps around.

//// Pointer Operations

//	Symbol   Name    Function
//	   <     left    move the data pointer one cell left; no-op at cell 0
func (vm *VM) left() {
	if !vm.tape.Left() {
		vm.logf("#", "left clamped @0")
	}
}

//	Symbol   Name    Function
//	   >     right   move the data pointer one cell right; no-op at the last cell
func (vm *VM) right() {
	if !vm.tape.Right() {
		vm.logf("#", "right clamped @%v", vm.tape.Ptr())
	}
}

//// Cell Operations

//	Symbol   Name    Function
//	   +     inc     add one to the current cell, 255 wraps to 0
func (vm *VM) inc() { vm.tape.Inc() }

//	Symbol   Name    Function
//	   -     dec     subtract one from the current cell, 0 wraps to 255
func (vm *VM) dec() { vm.tape.Dec() }

//// Input/Output Operations

//	Symbol   Name    Function
//	   .     write   write the current cell to output as one byte
func (vm *VM) write() { vm.writeByte(vm.tape.Load()) }

//	Symbol   Name    Function
//	   ,     read    read one input byte into the current cell
//
// Once input is exhausted, the cell is set according to the VM's EOFMode:
// zero by default, left unchanged, or set to 255. Exhausted input is never an
// error.
func (vm *VM) read() {
	if b, ok := vm.readByte(); ok {
		vm.tape.Stor(b)
		return
	}
	switch vm.eof {
	case EOFZero:
		vm.tape.Stor(0)
	case EOFMax:
		vm.tape.Stor(255)
	case EOFKeep:
	}
	vm.logf("#", "read EOF -> %v", vm.eof)
}

//// Control Flow

//	Symbols  Name    Function
//	  [ ]    loop    while the current cell is non-zero, run the body; the
//	                 condition is re-checked before every pass
func (vm *VM) loop(ctx context.Context, lp *ast.Loop) {
	if vm.logfn != nil {
		defer vm.withLogPrefix("\t")()
	}
	for vm.tape.Load() != 0 {
		vm.abortCheck(ctx)
		vm.steps++ // passes count toward any step limit
		vm.exec(ctx, lp.Body)
	}
}

// Nothing else halts a program: a run ends exactly when the top level
// statements are exhausted, or when the host aborts it.

//// Execution

func (vm *VM) exec(ctx context.Context, stmts []ast.Statement) {
	for _, stmt := range stmts {
		vm.abortCheck(ctx)
		vm.step(ctx, stmt)
	}
}

func (vm *VM) step(ctx context.Context, stmt ast.Statement) {
	vm.steps++
	if vm.logfn != nil {
		vm.logf(">", "exec @%v %v -- ptr:%v cell:%v", stmt.Pos(), stmt, vm.tape.Ptr(), vm.tape.Load())
	}
	switch st := stmt.(type) {
	case *ast.Loop:
		vm.loop(ctx, st)
	case ast.PointerMove:
		if st.Dir == ast.Left {
			vm.left()
		} else {
			vm.right()
		}
	case ast.CellMath:
		if st.Dir == ast.Decrement {
			vm.dec()
		} else {
			vm.inc()
		}
	case ast.IO:
		if st.Mode == ast.In {
			vm.read()
		} else {
			vm.write()
		}
	default:
		vm.halt(stmtError{stmt})
	}
}

// abortCheck halts the VM if its context is done, or its step limit has been
// reached; it runs between statements, never within one.
func (vm *VM) abortCheck(ctx context.Context) {
	select {
	case <-ctx.Done():
		vm.halt(ctx.Err())
	default:
	}
	if lim := vm.stepLimit; lim != 0 && vm.steps >= lim {
		vm.halt(errStepLimit)
	}
}

func (vm *VM) init() {
	if vm.tape == nil {
		t, err := tape.New(vm.tapeSize)
		vm.haltif(err)
		vm.tape = t
	}
	vm.steps = 0
}

func (vm *VM) run(ctx context.Context) {
	vm.init()
	vm.logf("#", "run %v statements, tape size %v", len(vm.prog), vm.tape.Len())
	vm.exec(ctx, vm.prog)
	vm.haltif(vm.out.Flush())
	vm.logf("#", "done after %v steps", vm.steps)
}

var errStepLimit = errors.New("step limit exceeded")

type stmtError struct{ ast.Statement }

func (err stmtError) Error() string {
	return fmt.Sprintf("invalid statement %T @%v", err.Statement, err.Pos())
}
