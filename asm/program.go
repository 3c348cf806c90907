package asm

import (
	"iter"
)

// Program is an assembled program, with the source line of each
// instruction.
type Program struct {
	Lines []Line
}

// Debug locates an address within a program.
type Debug struct {
	*Line
	Index int // Byte index of the address within the line.
}

// Debug returns the line containing the image offset addr. Debug.Line
// is nil if addr is outside the program.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n := range prog.Lines {
		line := &prog.Lines[n]
		if addr >= line.Addr && addr < line.Addr+line.Len() {
			dbg = Debug{
				Line:  line,
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Len returns the length of the image, in bytes.
func (prog *Program) Len() (length int) {
	for n := range prog.Lines {
		length += prog.Lines[n].Len()
	}
	return
}

// Binary linearizes the program into its byte-code image.
func (prog *Program) Binary() (code []byte) {
	code = make([]byte, 0, prog.Len())
	for _, line := range prog.All() {
		code = line.Encode(code)
	}

	return
}

// All iterates over the lines of the program, in source order.
func (prog *Program) All() iter.Seq2[int, *Line] {
	return func(yield func(n int, line *Line) bool) {
		for n := range prog.Lines {
			if !yield(n, &prog.Lines[n]) {
				return
			}
		}
	}
}
