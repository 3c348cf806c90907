package asm

import (
	"encoding/binary"
	"fmt"

	"github.com/ezrec/sacrisc/cpu"
)

// LineKind is the variant tag of an assembled line.
type LineKind int

const (
	LINE_NONE        = LineKind(cpu.SHAPE_NONE)        // Opcode only.
	LINE_REG         = LineKind(cpu.SHAPE_REG)         // One register.
	LINE_REG_REG     = LineKind(cpu.SHAPE_REG_REG)     // Two registers.
	LINE_REG_REG_REG = LineKind(cpu.SHAPE_REG_REG_REG) // Three registers.
	LINE_LIT         = LineKind(cpu.SHAPE_LIT)         // 32-bit literal.
	LINE_REG_LIT     = LineKind(cpu.SHAPE_REG_LIT)     // Register and 32-bit literal.
	LINE_DATA        = LineKind(-1)                    // Raw data from a directive.
)

// Line is one assembled source line.
type Line struct {
	LineNo    int        // Source line number.
	Addr      int        // Byte offset in the image.
	Kind      LineKind   // Variant tag.
	Op        cpu.Opcode // Opcode, unless Kind is LINE_DATA.
	Regs      [3]byte    // Register operands.
	Literal   int32      // Literal operand.
	Data      []byte     // Raw bytes, for LINE_DATA.
	LinkLabel string     // Label whose offset patches Literal.
}

// makeLine creates the line variant matching the opcode's shape.
func makeLine(lineno int, info *cpu.OpInfo) Line {
	return Line{
		LineNo: lineno,
		Kind:   LineKind(info.Shape),
		Op:     info.Code,
	}
}

// Len returns the encoded length of the line, in bytes.
func (line *Line) Len() int {
	switch line.Kind {
	case LINE_DATA:
		return len(line.Data)
	case LINE_NONE:
		return 1
	case LINE_REG:
		return 2
	case LINE_REG_REG:
		return 3
	case LINE_REG_REG_REG:
		return 4
	case LINE_LIT:
		return 5
	case LINE_REG_LIT:
		return 6
	}

	panic(fmt.Sprintf("line %d: unknown line kind %d", line.LineNo, line.Kind))
}

// Encode appends the binary form of the line to code.
func (line *Line) Encode(code []byte) []byte {
	switch line.Kind {
	case LINE_DATA:
		return append(code, line.Data...)
	case LINE_NONE:
		return append(code, byte(line.Op))
	case LINE_REG:
		return append(code, byte(line.Op), line.Regs[0])
	case LINE_REG_REG:
		return append(code, byte(line.Op), line.Regs[0], line.Regs[1])
	case LINE_REG_REG_REG:
		return append(code, byte(line.Op), line.Regs[0], line.Regs[1], line.Regs[2])
	case LINE_LIT:
		code = append(code, byte(line.Op))
		return binary.BigEndian.AppendUint32(code, uint32(line.Literal))
	case LINE_REG_LIT:
		code = append(code, byte(line.Op), line.Regs[0])
		return binary.BigEndian.AppendUint32(code, uint32(line.Literal))
	}

	panic(fmt.Sprintf("line %d: unknown line kind %d", line.LineNo, line.Kind))
}

// String returns the line in assembler syntax.
func (line *Line) String() string {
	if line.Kind == LINE_DATA {
		return fmt.Sprintf(".DATA % x", line.Data)
	}

	ins := cpu.Instruction{
		Addr:    int32(line.Addr),
		Op:      line.Op,
		Shape:   cpu.Shape(line.Kind),
		Regs:    line.Regs,
		Literal: line.Literal,
	}
	return ins.String()
}
