package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	REGISTER_COUNT = 16 // General purpose registers.

	REG_RA = 16 // Return address register.
	REG_SP = 17 // Stack pointer register.
	REG_PC = 18 // Program counter register.
	REG_RS = 19 // Result register.

	REGISTER_TOTAL = REGISTER_COUNT + 4
)

// specialName maps the special register mnemonics to their index.
var specialName = map[string]byte{
	"RA": REG_RA,
	"SP": REG_SP,
	"PC": REG_PC,
	"RS": REG_RS,
}

// RegisterFile is the register bank of the CPU.
type RegisterFile [REGISTER_TOTAL]int32

// Get returns the value of register index.
func (rf *RegisterFile) Get(index byte) (value int32, err error) {
	if int(index) >= len(rf) {
		err = ErrRegister(index)
		return
	}

	value = rf[index]
	return
}

// Set sets register index to value.
func (rf *RegisterFile) Set(index byte, value int32) (err error) {
	if int(index) >= len(rf) {
		err = ErrRegister(index)
		return
	}

	rf[index] = value
	return
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}

// String returns the register bank as text, four registers to a line.
func (rf *RegisterFile) String() (text string) {
	var sb strings.Builder
	for n, val := range rf {
		fmt.Fprintf(&sb, "% 3s: %08X", RegisterName(byte(n)), uint32(val))
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}

	text = sb.String()
	return
}

// RegisterIndex resolves a register name, without the leading '$',
// to its index. Names are either a general purpose index (0..15) or
// one of RA, SP, PC and RS, in any case.
func RegisterIndex(name string) (index byte, ok bool) {
	index, ok = specialName[strings.ToUpper(name)]
	if ok {
		return
	}

	// Plain decimal digits only, with no sign or leading zero.
	value, err := strconv.Atoi(name)
	if err != nil || value < 0 || value >= REGISTER_COUNT || strconv.Itoa(value) != name {
		return 0, false
	}

	return byte(value), true
}

// RegisterName returns the assembler name for register index.
func RegisterName(index byte) string {
	switch index {
	case REG_RA:
		return "ra"
	case REG_SP:
		return "sp"
	case REG_PC:
		return "pc"
	case REG_RS:
		return "rs"
	}

	return strconv.Itoa(int(index))
}
