package tape

// Dump is a comparable summary of a tape, as used by tests and diagnostics.
type Dump struct {
	Ptr   int
	Cells []byte
}

// Dump returns the pointer and cells, trimmed to their non-zero extent; the
// cells alias the tape.
func (t *Tape) Dump() (d Dump) {
	d.Ptr = t.ptr
	d.Cells = t.cells[:t.Extent()]
	return d
}
