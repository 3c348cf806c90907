// Package cpu implements the SAC-RISC execution engine.
//
// The machine has sixteen 32-bit general-purpose registers ($0-$15) and
// four special registers: return address ($ra), stack pointer ($sp),
// program counter ($pc) and result ($rs). Memory is a flat, big-endian,
// byte addressable store.
//
// Instructions are an opcode byte followed by zero to three register
// bytes and an optional 32-bit big-endian literal. The opcode table in
// this package is shared by the decoder and the assembler.
package cpu
