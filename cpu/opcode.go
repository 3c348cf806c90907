package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Shape is the operand layout of an instruction.
type Shape int

const (
	SHAPE_NONE        = Shape(0) // none
	SHAPE_REG         = Shape(1) // reg
	SHAPE_REG_REG     = Shape(2) // reg,reg
	SHAPE_REG_REG_REG = Shape(3) // reg,reg,reg
	SHAPE_LIT         = Shape(4) // lit
	SHAPE_REG_LIT     = Shape(5) // reg,lit
)

var shapeName = [...]string{"none", "reg", "reg,reg", "reg,reg,reg", "lit", "reg,lit"}

func (shape Shape) String() string {
	if shape < 0 || int(shape) >= len(shapeName) {
		return "shape(?)"
	}
	return shapeName[shape]
}

// Registers returns the number of register operand bytes.
func (shape Shape) Registers() int {
	switch shape {
	case SHAPE_REG, SHAPE_REG_LIT:
		return 1
	case SHAPE_REG_REG:
		return 2
	case SHAPE_REG_REG_REG:
		return 3
	}
	return 0
}

// Literal returns true if the shape carries a 32-bit literal.
func (shape Shape) Literal() bool {
	return shape == SHAPE_LIT || shape == SHAPE_REG_LIT
}

// Len returns the encoded length, in bytes, of an instruction of this shape.
func (shape Shape) Len() int {
	length := 1 + shape.Registers()
	if shape.Literal() {
		length += WORD_SIZE
	}
	return length
}

// Opcode is the leading byte of an instruction.
type Opcode byte

const (
	OP_NOP         = Opcode(0x00)
	OP_INPUT       = Opcode(0x01)
	OP_INPUT_CHAR  = Opcode(0x02)
	OP_ADD         = Opcode(0x03)
	OP_SUBT        = Opcode(0x04)
	OP_MULT        = Opcode(0x05)
	OP_DIV         = Opcode(0x06)
	OP_NEG         = Opcode(0x07)
	OP_AND         = Opcode(0x08)
	OP_OR          = Opcode(0x09)
	OP_LSHIFT      = Opcode(0x0A)
	OP_RSHIFT      = Opcode(0x0B)
	OP_GT          = Opcode(0x0C)
	OP_LT          = Opcode(0x0D)
	OP_EQ          = Opcode(0x0E)
	OP_BRANCH      = Opcode(0x0F)
	OP_JUMP        = Opcode(0x10)
	OP_COPY        = Opcode(0x11)
	OP_OUTPUT      = Opcode(0x12)
	OP_OUTPUT_CHAR = Opcode(0x13)
	OP_PUSH_STK    = Opcode(0x14)
	OP_POP_STK     = Opcode(0x15)
	OP_SPLIT       = Opcode(0x16)
	OP_LOAD        = Opcode(0x17)
	OP_LOAD_BYTE   = Opcode(0x18)
	OP_STORE       = Opcode(0x19)
	OP_STORE_BYTE  = Opcode(0x1A)
	OP_OUTPUT_STR  = Opcode(0x1B)
	OP_CORE_DUMP   = Opcode(0x1C)
	OP_LOAD_LIT    = Opcode(0x1D)
	OP_JUMP_LIT    = Opcode(0x1E)
	OP_BRANCH_LIT  = Opcode(0x1F)
	OP_SET         = Opcode(0x20)
	OP_HALT        = Opcode(0xFF)
)

// OpInfo describes one opcode. Both the assembler and the CPU decoder
// use the same table.
type OpInfo struct {
	Code     Opcode
	Mnemonic string
	Shape    Shape
}

var opTable = []OpInfo{
	{OP_NOP, "NOP", SHAPE_NONE},
	{OP_INPUT, "INPUT", SHAPE_NONE},
	{OP_INPUT_CHAR, "INPUT_CHAR", SHAPE_NONE},
	{OP_ADD, "ADD", SHAPE_REG_REG_REG},
	{OP_SUBT, "SUBT", SHAPE_REG_REG_REG},
	{OP_MULT, "MULT", SHAPE_REG_REG_REG},
	{OP_DIV, "DIV", SHAPE_REG_REG_REG},
	{OP_NEG, "NEG", SHAPE_REG_REG},
	{OP_AND, "AND", SHAPE_REG_REG_REG},
	{OP_OR, "OR", SHAPE_REG_REG_REG},
	{OP_LSHIFT, "LSHIFT", SHAPE_REG_REG},
	{OP_RSHIFT, "RSHIFT", SHAPE_REG_REG},
	{OP_GT, "GT", SHAPE_REG_REG_REG},
	{OP_LT, "LT", SHAPE_REG_REG_REG},
	{OP_EQ, "EQ", SHAPE_REG_REG_REG},
	{OP_BRANCH, "BRANCH", SHAPE_REG_REG},
	{OP_JUMP, "JUMP", SHAPE_REG},
	{OP_COPY, "COPY", SHAPE_REG_REG},
	{OP_OUTPUT, "OUTPUT", SHAPE_REG},
	{OP_OUTPUT_CHAR, "OUTPUT_CHAR", SHAPE_REG},
	{OP_PUSH_STK, "PUSH_STK", SHAPE_REG},
	{OP_POP_STK, "POP_STK", SHAPE_REG},
	{OP_SPLIT, "SPLIT", SHAPE_REG_REG_REG},
	{OP_LOAD, "LOAD", SHAPE_REG_REG},
	{OP_LOAD_BYTE, "LOAD_BYTE", SHAPE_REG_REG},
	{OP_STORE, "STORE", SHAPE_REG_REG},
	{OP_STORE_BYTE, "STORE_BYTE", SHAPE_REG_REG},
	{OP_OUTPUT_STR, "OUTPUT_STR", SHAPE_REG},
	{OP_CORE_DUMP, "CORE_DUMP", SHAPE_REG_REG},
	{OP_LOAD_LIT, "LOAD_LIT", SHAPE_LIT},
	{OP_JUMP_LIT, "JUMP_LIT", SHAPE_LIT},
	{OP_BRANCH_LIT, "BRANCH_LIT", SHAPE_REG_LIT},
	{OP_SET, "SET", SHAPE_REG_LIT},
	{OP_HALT, "HALT", SHAPE_NONE},
}

// aliases are alternate mnemonics for existing opcodes.
var aliases = map[string]Opcode{
	"JUMP_LABEL":   OP_JUMP_LIT,
	"BRANCH_LABEL": OP_BRANCH_LIT,
}

var (
	opByCode     [256]*OpInfo
	opByMnemonic = map[string]*OpInfo{}
)

func init() {
	for n := range opTable {
		info := &opTable[n]
		opByCode[info.Code] = info
		opByMnemonic[info.Mnemonic] = info
	}
	for name, code := range aliases {
		opByMnemonic[name] = opByCode[code]
	}
}

// Info returns the table entry for the opcode, or nil if unknown.
func (op Opcode) Info() *OpInfo {
	return opByCode[op]
}

// Shape returns the operand shape of the opcode.
func (op Opcode) Shape() (shape Shape, ok bool) {
	info := op.Info()
	if info == nil {
		return
	}
	return info.Shape, true
}

func (op Opcode) String() string {
	info := op.Info()
	if info == nil {
		return fmt.Sprintf("OP_%02X", byte(op))
	}
	return info.Mnemonic
}

// Lookup finds the opcode for a mnemonic, ignoring case.
func Lookup(mnemonic string) (info *OpInfo, ok bool) {
	info, ok = opByMnemonic[strings.ToUpper(mnemonic)]
	return
}

// Mnemonics returns the sorted list of all accepted mnemonics, aliases
// included.
func Mnemonics() []string {
	return slices.Sorted(maps.Keys(opByMnemonic))
}

// Opcodes iterates over the opcode table in opcode order.
func Opcodes() iter.Seq[*OpInfo] {
	return func(yield func(info *OpInfo) bool) {
		for _, info := range opByCode {
			if info == nil {
				continue
			}
			if !yield(info) {
				return
			}
		}
	}
}
