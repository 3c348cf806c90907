package cpu

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for info := range Opcodes() {
		count++
		found, ok := Lookup(info.Mnemonic)
		assert.True(ok, info.Mnemonic)
		assert.Equal(info, found, info.Mnemonic)
		assert.Equal(info, info.Code.Info(), info.Mnemonic)
		assert.Equal(info.Mnemonic, info.Code.String())

		shape, ok := info.Code.Shape()
		assert.True(ok)
		assert.Equal(info.Shape, shape)
	}
	assert.Equal(len(opTable), count)

	jump, ok := Lookup("jump_label")
	assert.True(ok)
	assert.Equal(OP_JUMP_LIT, jump.Code)

	branch, ok := Lookup("BRANCH_LABEL")
	assert.True(ok)
	assert.Equal(OP_BRANCH_LIT, branch.Code)

	_, ok = Lookup("LOAD_STR")
	assert.False(ok)

	assert.Nil(Opcode(0x21).Info())
	assert.Equal("OP_21", Opcode(0x21).String())
	_, ok = Opcode(0xFE).Shape()
	assert.False(ok)

	names := Mnemonics()
	assert.True(slices.IsSorted(names))
	assert.Contains(names, "JUMP_LABEL")
	assert.Contains(names, "HALT")
	assert.Equal(len(opTable)+len(aliases), len(names))
}

func TestShape(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		shape     Shape
		registers int
		literal   bool
		length    int
		name      string
	}{
		{SHAPE_NONE, 0, false, 1, "none"},
		{SHAPE_REG, 1, false, 2, "reg"},
		{SHAPE_REG_REG, 2, false, 3, "reg,reg"},
		{SHAPE_REG_REG_REG, 3, false, 4, "reg,reg,reg"},
		{SHAPE_LIT, 0, true, 5, "lit"},
		{SHAPE_REG_LIT, 1, true, 6, "reg,lit"},
	}

	for _, entry := range table {
		assert.Equal(entry.registers, entry.shape.Registers(), entry.name)
		assert.Equal(entry.literal, entry.shape.Literal(), entry.name)
		assert.Equal(entry.length, entry.shape.Len(), entry.name)
		assert.Equal(entry.name, entry.shape.String())
	}

	assert.Equal("shape(?)", Shape(9).String())
}

func TestInstructionEncode(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		ins  Instruction
		code []byte
		text string
	}{
		{Instruction{Op: OP_NOP, Shape: SHAPE_NONE}, []byte{0x00}, "NOP"},
		{Instruction{Op: OP_JUMP, Shape: SHAPE_REG, Regs: [3]byte{REG_RA}}, []byte{0x10, 0x10}, "JUMP $ra"},
		{Instruction{Op: OP_COPY, Shape: SHAPE_REG_REG, Regs: [3]byte{1, REG_PC}}, []byte{0x11, 0x01, 0x12}, "COPY $1 $pc"},
		{Instruction{Op: OP_ADD, Shape: SHAPE_REG_REG_REG, Regs: [3]byte{5, REG_RS, 5}}, []byte{0x03, 0x05, 0x13, 0x05}, "ADD $5 $rs $5"},
		{Instruction{Op: OP_LOAD_LIT, Shape: SHAPE_LIT, Literal: 32}, []byte{0x1D, 0, 0, 0, 0x20}, "LOAD_LIT 32"},
		{Instruction{Op: OP_SET, Shape: SHAPE_REG_LIT, Regs: [3]byte{1}, Literal: -1}, []byte{0x20, 0x01, 0xff, 0xff, 0xff, 0xff}, "SET $1 -1"},
	}

	for _, entry := range table {
		code := entry.ins.Encode(nil)
		assert.Equal(entry.code, code, entry.text)
		assert.Equal(entry.ins.Len(), len(code), entry.text)
		assert.Equal(entry.text, entry.ins.String())

		mem := NewMemory(16)
		assert.NoError(mem.Write(3, code))
		ins, err := Decode(mem, 3)
		assert.NoError(err, entry.text)
		expected := entry.ins
		expected.Addr = 3
		assert.Equal(expected, ins, entry.text)
	}
}

func TestDecodeAll(t *testing.T) {
	assert := assert.New(t)

	for info := range Opcodes() {
		ins := Instruction{
			Op:      info.Code,
			Shape:   info.Shape,
			Literal: 0x01020304,
		}
		copy(ins.Regs[:], []byte{1, 2, 3}[:info.Shape.Registers()])

		mem := NewMemory(8)
		assert.NoError(mem.Write(0, ins.Encode(nil)))

		decoded, err := Decode(mem, 0)
		assert.NoError(err, info.Mnemonic)
		if !info.Shape.Literal() {
			ins.Literal = 0
		}
		assert.Equal(ins, decoded, info.Mnemonic)
	}
}

func TestDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4)

	mem.Data[0] = 0x21
	_, err := Decode(mem, 0)
	assert.ErrorIs(err, ErrOpcodeUnknown)

	// Truncated SET at the end of memory.
	mem.Data[2] = byte(OP_SET)
	_, err = Decode(mem, 2)
	assert.ErrorIs(err, ErrAddressRange)

	_, err = Decode(mem, 4)
	assert.ErrorIs(err, ErrAddressRange)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	code := []byte{
		0x20, 0x01, 0x00, 0x00, 0x00, 0x05,
		0x1D, 0x00, 0x00, 0x00, 0x20,
		0x03, 0x05, 0x13, 0x05,
		0x00,
		0x12, 0x05,
		0x1E, 0x00, 0x00, 0x00, 0x0F,
	}

	list, err := Disassemble(code, 0)
	assert.NoError(err)

	var text []string
	var addrs []int32
	for _, ins := range list {
		text = append(text, ins.String())
		addrs = append(addrs, ins.Addr)
	}

	assert.Equal([]string{
		"SET $1 5",
		"LOAD_LIT 32",
		"ADD $5 $rs $5",
		"NOP",
		"OUTPUT $5",
		"JUMP_LIT 15",
	}, text)
	assert.Equal([]int32{0, 6, 11, 15, 16, 18}, addrs)

	list, err = Disassemble([]byte{0x00, 0x00}, 0x10)
	assert.NoError(err)
	assert.Len(list, 2)
	assert.Equal(int32(0x11), list[1].Addr)

	_, err = Disassemble([]byte{0x00, 0x42}, 0)
	var fault *ErrFault
	if assert.ErrorAs(err, &fault) {
		assert.Equal(int32(1), fault.Addr)
		assert.Equal(byte(0x42), fault.Code)
	}
	assert.ErrorIs(err, ErrOpcodeUnknown)

	list, err = Disassemble([]byte{0x00, 0x42}, 0x100)
	assert.Len(list, 1)
	if assert.ErrorAs(err, &fault) {
		assert.Equal(int32(0x101), fault.Addr)
	}

	list, err = Disassemble([]byte{0x00, 0xff}, -4)
	assert.Nil(list)
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal(ErrAddress(-4), err)

	list, err = Disassemble([]byte{0x00, 0x00}, math.MaxInt32)
	assert.Nil(list)
	assert.ErrorIs(err, ErrAddressRange)
}
