// Package tape implements the bounded, zero-initialized cell memory that
// programs operate on, along with its data pointer.
//
// Pointer moves clamp at either end and cell arithmetic wraps; neither is an
// error.
package tape

import "fmt"

// DefaultSize is the conventional tape length.
const DefaultSize = 30000

// SizeError indicates an attempt to create a tape with a non-positive length.
type SizeError int

func (size SizeError) Error() string {
	return fmt.Sprintf("invalid tape size %d, must be positive", int(size))
}

// IndexError indicates a broken pointer invariant; it is only ever panicked.
type IndexError struct {
	Ptr  int
	Size int
	Op   string
}

func (ie IndexError) Error() string {
	return fmt.Sprintf("tape pointer %v out of range [0, %v) after %v", ie.Ptr, ie.Size, ie.Op)
}

// Tape is a fixed-length sequence of byte cells and a pointer into them.
// The zero value is not usable; construct with New.
type Tape struct {
	cells []byte
	ptr   int
}

// New creates a zeroed tape of the given length, with the pointer at 0.
func New(size int) (*Tape, error) {
	if size <= 0 {
		return nil, SizeError(size)
	}
	t := &Tape{cells: make([]byte, size)}
	t.check("new")
	return t, nil
}

// Len returns the number of cells.
func (t *Tape) Len() int { return len(t.cells) }

// Ptr returns the current data pointer.
func (t *Tape) Ptr() int { return t.ptr }

// Left moves the pointer one cell left, unless already at 0.
// Returns false if the move was clamped.
func (t *Tape) Left() bool {
	if t.ptr == 0 {
		return false
	}
	t.ptr--
	t.check("left")
	return true
}

// Right moves the pointer one cell right, unless already at the last cell.
// Returns false if the move was clamped.
func (t *Tape) Right() bool {
	if t.ptr == len(t.cells)-1 {
		return false
	}
	t.ptr++
	t.check("right")
	return true
}

// Inc adds one to the current cell, wrapping 255 around to 0.
func (t *Tape) Inc() { t.cells[t.ptr]++ }

// Dec subtracts one from the current cell, wrapping 0 around to 255.
func (t *Tape) Dec() { t.cells[t.ptr]-- }

// Load returns the current cell value.
func (t *Tape) Load() byte { return t.cells[t.ptr] }

// Stor sets the current cell value.
func (t *Tape) Stor(val byte) { t.cells[t.ptr] = val }

// At returns the value of any cell, 0 for addresses outside the tape.
func (t *Tape) At(addr int) byte {
	if addr < 0 || addr >= len(t.cells) {
		return 0
	}
	return t.cells[addr]
}

// Seek moves the pointer to addr, clamped into range.
func (t *Tape) Seek(addr int) {
	if addr < 0 {
		addr = 0
	} else if addr >= len(t.cells) {
		addr = len(t.cells) - 1
	}
	t.ptr = addr
	t.check("seek")
}

// LoadInto copies cells starting at addr into buf, zeroing any part of buf
// that falls past the end of the tape; returns the number of tape cells copied.
func (t *Tape) LoadInto(addr int, buf []byte) int {
	n := 0
	if addr >= 0 && addr < len(t.cells) {
		n = copy(buf, t.cells[addr:])
	}
	for i := range buf[n:] {
		buf[n+i] = 0
	}
	return n
}

// Snapshot returns a copy of all cells.
func (t *Tape) Snapshot() []byte {
	snap := make([]byte, len(t.cells))
	copy(snap, t.cells)
	return snap
}

// Extent returns one past the highest non-zero cell address.
func (t *Tape) Extent() int {
	for i := len(t.cells) - 1; i >= 0; i-- {
		if t.cells[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// Reset zeroes every cell and returns the pointer to 0.
func (t *Tape) Reset() {
	for i := range t.cells {
		t.cells[i] = 0
	}
	t.ptr = 0
	t.check("reset")
}

func (t *Tape) check(op string) {
	if t.ptr < 0 || t.ptr >= len(t.cells) {
		panic(IndexError{t.ptr, len(t.cells), op})
	}
}
