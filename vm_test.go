package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobf/internal/fileinput"
	"github.com/jcorbin/gobf/internal/logio"
	"github.com/jcorbin/gobf/internal/tape"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []interface{}
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive   bool
	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withProg(src string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		prog, err := Compile(src)
		require.NoError(t, err, "unexpected compile error")
		return optFunc(func(vm *VM) {
			vm.Load(prog.Stmts)
		})
	})
	return vmt
}

func (vmt vmTestCase) withTapeSize(size int) vmTestCase {
	vmt.opts = append(vmt.opts, withTapeSize(size))
	return vmt
}

func (vmt vmTestCase) withEOF(mode EOFMode) vmTestCase {
	vmt.opts = append(vmt.opts, mode)
	return vmt
}

func (vmt vmTestCase) withStepLimit(limit uint64) vmTestCase {
	vmt.opts = append(vmt.opts, withStepLimit(limit))
	return vmt
}

func (vmt vmTestCase) withCells(values ...byte) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		if vm.tape == nil {
			vm.init()
		}
		ptr := vm.tape.Ptr()
		for addr, value := range values {
			vm.tape.Seek(addr)
			vm.tape.Stor(value)
		}
		vm.tape.Seek(ptr)
	}))
	return vmt
}

func (vmt vmTestCase) withPtr(addr int) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		if vm.tape == nil {
			vm.init()
		}
		vm.tape.Seek(addr)
	}))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := t.Name() + "/input"
		if id := vmt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextInputID++
		return WithInput(fileinput.NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectCells(values ...byte) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		buf := make([]byte, len(values))
		vm.tape.LoadInto(0, buf)
		if !assert.Equal(t, values, buf, "expected cell values") {
			t.Logf("tape: %v", vm.tape.Dump())
		}
	})
	return vmt
}

func (vmt vmTestCase) expectPtr(ptr int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, ptr, vm.tape.Ptr(), "expected data pointer")
	})
	return vmt
}

func (vmt vmTestCase) expectSteps(steps uint64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, steps, vm.Steps(), "expected step count")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestDump() vmTestCase {
	vmt.expect = append(vmt.expect, vmt.dumpToTest)
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Prefix: "out: ", Logf: t.Logf, Quote: true})
	})
	return vmt
}

func (vmt vmTestCase) withTestHexOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		lw := &logio.Writer{Prefix: "out: ", Logf: t.Logf}
		enc := hex.Dumper(lw)
		return VMOptions(
			WithTee(enc),
			WithCloser(closerChain{enc, lw}),
		)
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		WithLogf(t.Logf).apply(vm)
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()
	return vm.Run(ctx)
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	const defaultTapeSize = 64

	opt := VMOption(withTapeSize(defaultTapeSize))
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opt = VMOptions(opt, impl(&vmt, t))
		case VMOption:
			opt = VMOptions(opt, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	return New(opt)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

type closerChain []io.Closer

func (cc closerChain) Close() (rerr error) {
	for _, cl := range cc {
		if cerr := cl.Close(); rerr == nil {
			rerr = cerr
		}
	}
	return rerr
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func withCellsAt(tp *tape.Tape, values ...byte) *tape.Tape {
	for addr, value := range values {
		tp.Seek(addr)
		tp.Stor(value)
	}
	tp.Seek(0)
	return tp
}
