package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/gobf/internal/runeio"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  steps: %v\n", dump.vm.steps)
	if dump.vm.tape == nil {
		fmt.Fprintf(dump.out, "  tape: none\n")
		return
	}
	fmt.Fprintf(dump.out, "  ptr: %v\n", dump.vm.tape.Ptr())
	dump.dumpTape()
}

// dumpTape writes one line for every non-zero cell, and for the cell under
// the pointer even if it is zero.
func (dump vmDumper) dumpTape() {
	t := dump.vm.tape
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(t.Len())) + 1
	}

	end := t.Extent()
	ptr := t.Ptr()
	if ptr >= end {
		end = ptr + 1
	}

	fmt.Fprintf(dump.out, "# Tape [%v]\n", t.Len())
	for addr := 0; addr < end; addr++ {
		val := t.At(addr)
		if val == 0 && addr != ptr {
			continue
		}
		fmt.Fprintf(dump.out, "  @% *v %v", dump.addrWidth, addr, val)
		if r := rune(val); 0x20 < r && r < 0x7f {
			fmt.Fprintf(dump.out, " %q", r)
		} else if name := runeio.Name(r); len(name) > 1 && r < 0xa0 {
			fmt.Fprintf(dump.out, " %v", name)
		}
		if addr == ptr {
			fmt.Fprintf(dump.out, " <-- ptr")
		}
		fmt.Fprintf(dump.out, "\n")
	}
}
