// Package io provides the collaborators of the SAC-RISC machine: the
// console the CPU reads and writes scalar values through, and a depot
// that stores assembled images as opaque files.
package io

// Console defines the scalar I/O surface used by the INPUT and OUTPUT
// family of instructions.
type Console interface {
	// ReadInt reads one integer from the next input line.
	ReadInt() (value int32, err error)
	// ReadChar reads the first character of the next input line.
	ReadChar() (ch rune, err error)
	// WriteInt writes value in decimal, followed by a newline.
	WriteInt(value int32) error
	// WriteChar writes a single character.
	WriteChar(ch rune) error
	// WriteString writes text as-is.
	WriteString(text string) error
}
