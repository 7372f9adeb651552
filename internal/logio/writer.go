// Package logio adapts printf-style log functions into io.Writer-s.
package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that logs one Logf call per completed line of
// written bytes. Lines are logged after Prefix, either as-is or, when Quote
// is set, as a Go quoted string; quoting suits raw program output that may
// hold control bytes.
type Writer struct {
	Logf   func(string, ...interface{})
	Prefix string
	Quote  bool

	mu    sync.Mutex
	buf   bytes.Buffer
	lines int
}

// Write buffers p and logs any lines that it completes; it never fails, and
// is safe to call from multiple goroutines.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	for {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		lw.logLine(lw.buf.Next(i + 1)[:i])
	}
	return len(p), nil
}

// Flush logs any partial line remaining in the internal buffer.
func (lw *Writer) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if lw.buf.Len() > 0 {
		lw.logLine(lw.buf.Next(lw.buf.Len()))
	}
	return nil
}

// Close calls Flush.
func (lw *Writer) Close() error { return lw.Flush() }

// Lines returns how many lines have been logged so far.
func (lw *Writer) Lines() int {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.lines
}

func (lw *Writer) logLine(line []byte) {
	lw.lines++
	if lw.Quote {
		lw.Logf("%s%q", lw.Prefix, line)
	} else {
		lw.Logf("%s%s", lw.Prefix, line)
	}
}
