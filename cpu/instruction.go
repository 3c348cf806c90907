package cpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Instruction is a single decoded instruction.
type Instruction struct {
	Addr    int32   // Address of the opcode byte.
	Op      Opcode  // Opcode.
	Shape   Shape   // Operand shape, from the opcode table.
	Regs    [3]byte // Register operands; only Shape.Registers() are valid.
	Literal int32   // Literal operand, if Shape.Literal().
}

// Len returns the encoded length of the instruction.
func (ins Instruction) Len() int {
	return ins.Shape.Len()
}

// Encode appends the binary form of the instruction to code.
func (ins Instruction) Encode(code []byte) []byte {
	code = append(code, byte(ins.Op))
	code = append(code, ins.Regs[:ins.Shape.Registers()]...)
	if ins.Shape.Literal() {
		code = binary.BigEndian.AppendUint32(code, uint32(ins.Literal))
	}
	return code
}

// Decode fetches and decodes the instruction at addr.
func Decode(mem *Memory, addr int32) (ins Instruction, err error) {
	ins.Addr = addr

	op, err := mem.LoadByte(addr)
	if err != nil {
		return
	}
	ins.Op = Opcode(op)

	shape, ok := ins.Op.Shape()
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	ins.Shape = shape

	var operand [8]byte
	raw := operand[:shape.Len()-1]
	err = mem.Read(addr+1, raw)
	if err != nil {
		return
	}

	regs := shape.Registers()
	copy(ins.Regs[:], raw[:regs])
	if shape.Literal() {
		ins.Literal = int32(binary.BigEndian.Uint32(raw[regs:]))
	}

	return
}

// Disassemble decodes every instruction in code, which is assumed to
// be loaded at base. On a fault the instructions before it are returned.
func Disassemble(code []byte, base int32) (list []Instruction, err error) {
	if base < 0 || int64(base)+int64(len(code)) > math.MaxInt32 {
		err = ErrAddress(base)
		return
	}

	mem := &Memory{Data: code}
	for offset := int32(0); int(offset) < len(code); {
		var ins Instruction
		ins, err = Decode(mem, offset)
		if err != nil {
			err = &ErrFault{Addr: base + offset, Code: code[offset], Err: err}
			return
		}
		ins.Addr += base
		list = append(list, ins)
		offset += int32(ins.Len())
	}

	return
}

// String returns the instruction in assembler syntax.
func (ins Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(ins.Op.String())
	for _, reg := range ins.Regs[:ins.Shape.Registers()] {
		sb.WriteString(" $")
		sb.WriteString(RegisterName(reg))
	}
	if ins.Shape.Literal() {
		fmt.Fprintf(&sb, " %d", ins.Literal)
	}
	return sb.String()
}
