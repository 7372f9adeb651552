/* Package main: an interpreter for the eight symbol tape language

A program operates on a tape of byte cells, all initially zero, through a
data pointer that starts at the first cell. There are eight instructions,
each a single character:

	>  move the pointer one cell right
	<  move the pointer one cell left
	+  increment the cell under the pointer
	-  decrement the cell under the pointer
	.  write the cell under the pointer to output, as one byte
	,  read one byte of input into the cell under the pointer
	[  if the cell under the pointer is zero, skip past the matching ]
	]  if the cell under the pointer is non-zero, go back to the matching [

Every other character is ignored, which lets programs carry their own
commentary in plain prose (provided it avoids the eight symbols).

Processing happens in three strictly pipelined stages, run once per program:

Section 1: the scanner, see internal/scanner

Every source character becomes exactly one token, tagged with its character
offset. Characters outside the alphabet become illegal tokens rather than
being skipped, so that nothing about the source is lost before parsing. An
empty source is refused outright.

Section 2: the parser, see internal/parser

Tokens are parsed by recursive descent into a tree: every bracket pair
becomes a single loop statement owning the statements between its brackets.
Illegal tokens are dropped here. A close bracket without an open one, or an
open bracket that reaches end of input, is an error that names the offending
offset; no partial tree is ever returned.

Section 3: the VM, see vm.go

The VM walks the tree against a fixed size tape (30000 cells by default).
The tape has hard edges: moving left from the first cell, or right from the
last, does nothing. Cells are bytes: incrementing 255 gives 0, decrementing
0 gives 255. Reading past the end of input stores 0 by default (see
EOFMode), and is not an error.

A loop runs its body for as long as the cell under the pointer is non-zero,
checking again before every pass; so `+++++[-]` leaves its cell at 0 after
five passes. Since unbounded loops are easy to write, the host may abort a
run through its context, which is checked between statements, or bound it
with a step limit.

The command runs any program files given as arguments, or else reads
programs a line at a time from standard input; see repl.go and config.go.

*/
package main
