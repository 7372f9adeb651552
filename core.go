package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/gobf/internal/flushio"
)

type ioCore struct {
	logging
	in      io.ByteReader
	out     flushio.WriteFlusher
	closers []io.Closer
}

// Close flushes output, then closes anything the VM was given ownership of.
func (ioc *ioCore) Close() (err error) {
	if ioc.out != nil {
		err = ioc.out.Flush()
	}
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	ioc.closers = nil
	return err
}

func (ioc *ioCore) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if ioc.out != nil {
			if ferr := ioc.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		ioc.logf("#", "halt error: %v", err)
	}()

	panic(haltError{err})
}

func (ioc *ioCore) haltif(err error) {
	if err != nil {
		ioc.halt(err)
	}
}

func (ioc *ioCore) writeByte(b byte) {
	if err := flushio.WriteByte(ioc.out, b); err != nil {
		ioc.halt(err)
	}
}

// readByte returns the next input byte, and false once input is exhausted;
// any pending output is flushed first, so that prompts are seen before
// blocking on input.
func (ioc *ioCore) readByte() (byte, bool) {
	if err := ioc.out.Flush(); err != nil {
		ioc.halt(err)
	}
	b, err := ioc.in.ReadByte()
	if err == io.EOF {
		return 0, false
	}
	ioc.haltif(err)
	return b, true
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
