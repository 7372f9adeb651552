package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/gobf/internal/flushio"
	"github.com/jcorbin/gobf/internal/tape"
)

// VMOption configures a VM; see the With* functions.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one, skipping any nil.
func VMOptions(opts ...VMOption) VMOption {
	var all options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

var defaultOptions = options{
	withInput(strings.NewReader("")),
	withOutput(io.Discard),
	withTapeSize(tape.DefaultSize),
	EOFZero,
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type tapeSizeOption int
type tapeOption struct{ *tape.Tape }
type stepLimitOption uint64

func withInput(r io.Reader) inputOption          { return inputOption{r} }
func withOutput(w io.Writer) outputOption        { return outputOption{w} }
func withTee(w io.Writer) teeOption              { return teeOption{w} }
func withTapeSize(size int) tapeSizeOption       { return tapeSizeOption(size) }
func withTape(t *tape.Tape) tapeOption           { return tapeOption{t} }
func withStepLimit(limit uint64) stepLimitOption { return stepLimitOption(limit) }

func (i inputOption) apply(vm *VM) {
	vm.in = newByteReader(i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (size tapeSizeOption) apply(vm *VM) {
	vm.tapeSize = int(size)
	if vm.tape != nil && vm.tape.Len() != vm.tapeSize {
		vm.tape = nil
	}
}

func (t tapeOption) apply(vm *VM) {
	vm.tape = t.Tape
	if t.Tape != nil {
		vm.tapeSize = t.Len()
	}
}

func (lim stepLimitOption) apply(vm *VM) {
	vm.stepLimit = uint64(lim)
}

func newByteReader(r io.Reader) io.ByteReader {
	if br, is := r.(io.ByteReader); is {
		return br
	}
	return bufio.NewReader(r)
}

// EOFMode selects what a read instruction stores once input is exhausted.
type EOFMode uint8

const (
	// EOFZero stores 0 into the current cell; this is the default.
	EOFZero EOFMode = iota

	// EOFKeep leaves the current cell unchanged.
	EOFKeep

	// EOFMax stores 255 into the current cell, the byte-wide form of -1.
	EOFMax
)

var eofModeNames = [...]string{
	EOFZero: "zero",
	EOFKeep: "keep",
	EOFMax:  "max",
}

func (mode EOFMode) apply(vm *VM) { vm.eof = mode }

func (mode EOFMode) String() string {
	if int(mode) < len(eofModeNames) {
		return eofModeNames[mode]
	}
	return fmt.Sprintf("EOFMode(%d)", uint8(mode))
}

// Set parses mode from its name, implementing flag.Value.
func (mode *EOFMode) Set(s string) error {
	for i, name := range eofModeNames {
		if s == name {
			*mode = EOFMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid eof mode %q, must be one of %q", s, eofModeNames[:])
}

// MarshalText implements encoding.TextMarshaler.
func (mode EOFMode) MarshalText() ([]byte, error) { return []byte(mode.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *EOFMode) UnmarshalText(text []byte) error { return mode.Set(string(text)) }
