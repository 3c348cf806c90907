package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/sacrisc/io"
)

// Console is the scalar I/O device attached to the CPU.
type Console io.Console

var _cpu_defines = map[string]string{
	"REG_RA":     fmt.Sprint(REG_RA),
	"REG_SP":     fmt.Sprint(REG_SP),
	"REG_PC":     fmt.Sprint(REG_PC),
	"REG_RS":     fmt.Sprint(REG_RS),
	"WORD_SIZE":  fmt.Sprint(WORD_SIZE),
	"HWORD_SIZE": fmt.Sprint(HWORD_SIZE),
}

// Cpu is the SAC-RISC execution engine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register RegisterFile // Register bank.
	Memory   *Memory      // Memory owned by this CPU.
	Console  Console      // Console for INPUT and OUTPUT instructions.
	Active   bool         // Cleared by HALT, or by a runtime fault.

	Ticks int // Instructions executed since reset.

	jumped bool // Set when the current instruction wrote PC.
}

// NewCpu creates a new CPU that owns mem.
func NewCpu(mem *Memory, console Console) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:  mem,
		Console: console,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the registers, sets PC to entry, and activates the CPU.
// Memory is left untouched.
func (cpu *Cpu) Reset(entry int32) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%04x", entry)
	}

	cpu.Register.Reset()
	cpu.Register[REG_PC] = entry
	cpu.Ticks = 0
	cpu.Active = true
}

// Pc returns the program counter.
func (cpu *Cpu) Pc() int32 {
	return cpu.Register[REG_PC]
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "active: %v  ticks: %d\n", cpu.Active, cpu.Ticks)
	sb.WriteString(cpu.Register.String())
	return sb.String()
}

// Tick performs exactly one fetch, decode and execute cycle.
//
// On a runtime fault the CPU is deactivated, PC is left at the failing
// instruction, and an *ErrFault is returned.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Active {
		err = ErrHalted
		return
	}

	pc := cpu.Pc()

	defer func() {
		if err != nil {
			cpu.Active = false
			cpu.Register[REG_PC] = pc
			code, _ := cpu.Memory.LoadByte(pc)
			err = &ErrFault{Addr: pc, Code: code, Err: err}
		}
	}()

	ins, err := Decode(cpu.Memory, pc)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", uint32(pc), ins)
	}

	cpu.jumped = false
	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	if !cpu.jumped {
		cpu.Register[REG_PC] = pc + int32(ins.Len())
	}

	cpu.Ticks++
	return
}

// get reads register operand n of ins.
func (cpu *Cpu) get(ins Instruction, n int) (int32, error) {
	return cpu.Register.Get(ins.Regs[n])
}

// set writes register index. Writing PC overrides the automatic
// advance of the program counter.
func (cpu *Cpu) set(index byte, value int32) (err error) {
	err = cpu.Register.Set(index, value)
	if err == nil && index == REG_PC {
		cpu.jumped = true
	}
	return
}

// jump sets PC to target.
func (cpu *Cpu) jump(target int32) {
	cpu.Register[REG_PC] = target
	cpu.jumped = true
}

// operands reads the first count register operands of ins.
func (cpu *Cpu) operands(ins Instruction, count int) (vals [3]int32, err error) {
	for n := range count {
		vals[n], err = cpu.get(ins, n)
		if err != nil {
			return
		}
	}
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	// Validate every register operand before any side effects.
	vals, err := cpu.operands(ins, ins.Shape.Registers())
	if err != nil {
		return
	}
	a, b := vals[0], vals[1]

	switch ins.Op {
	case OP_NOP:
		// pass
	case OP_HALT:
		cpu.Active = false
		if cpu.Verbose {
			log.Printf("cpu: halt at 0x%04x", uint32(ins.Addr))
		}
	case OP_INPUT:
		var value int32
		value, err = cpu.readInt()
		if err != nil {
			return
		}
		err = cpu.set(REG_RS, value)
	case OP_INPUT_CHAR:
		var ch rune
		ch, err = cpu.readChar()
		if err != nil {
			return
		}
		err = cpu.set(REG_RS, int32(ch))
	case OP_ADD, OP_SUBT, OP_MULT, OP_DIV, OP_AND, OP_OR, OP_GT, OP_LT, OP_EQ:
		var value int32
		value, err = doAlu(ins.Op, a, b)
		if err != nil {
			return
		}
		err = cpu.set(ins.Regs[2], value)
	case OP_NEG:
		err = cpu.set(ins.Regs[1], ^a)
	case OP_LSHIFT:
		err = cpu.set(ins.Regs[1], a<<1)
	case OP_RSHIFT:
		err = cpu.set(ins.Regs[1], a>>1)
	case OP_BRANCH:
		if a != 0 {
			cpu.jump(b)
		}
	case OP_JUMP:
		cpu.jump(a)
	case OP_COPY:
		err = cpu.set(ins.Regs[1], a)
	case OP_OUTPUT:
		err = cpu.output(func(con Console) error { return con.WriteInt(a) })
	case OP_OUTPUT_CHAR:
		err = cpu.output(func(con Console) error { return con.WriteChar(rune(a)) })
	case OP_OUTPUT_STR:
		var text string
		text, err = cpu.Memory.LoadString(a)
		if err != nil {
			return
		}
		err = cpu.output(func(con Console) error { return con.WriteString(text) })
	case OP_CORE_DUMP:
		var text string
		text, err = cpu.coreDump(a, b)
		if err != nil {
			return
		}
		err = cpu.output(func(con Console) error { return con.WriteString(text) })
	case OP_PUSH_STK:
		sp := cpu.Register[REG_SP]
		err = cpu.Memory.StoreWord(sp, a)
		if err != nil {
			return
		}
		err = cpu.set(REG_SP, sp+WORD_SIZE)
	case OP_POP_STK:
		sp := cpu.Register[REG_SP] - WORD_SIZE
		var value int32
		value, err = cpu.Memory.LoadWord(sp)
		if err != nil {
			return
		}
		err = cpu.set(REG_SP, sp)
		if err != nil {
			return
		}
		err = cpu.set(ins.Regs[0], value)
	case OP_SPLIT:
		err = cpu.set(ins.Regs[1], int32(uint32(a)>>16))
		if err != nil {
			return
		}
		err = cpu.set(ins.Regs[2], a&0xffff)
	case OP_LOAD:
		var value int32
		value, err = cpu.Memory.LoadWord(a)
		if err != nil {
			return
		}
		err = cpu.set(ins.Regs[1], value)
	case OP_LOAD_BYTE:
		var value byte
		value, err = cpu.Memory.LoadByte(a)
		if err != nil {
			return
		}
		err = cpu.set(ins.Regs[1], int32(int8(value)))
	case OP_STORE:
		err = cpu.Memory.StoreWord(a, b)
	case OP_STORE_BYTE:
		err = cpu.Memory.StoreByte(a, byte(b))
	case OP_LOAD_LIT:
		err = cpu.set(REG_RS, ins.Literal)
	case OP_JUMP_LIT:
		cpu.jump(ins.Literal)
	case OP_BRANCH_LIT:
		if a != 0 {
			cpu.jump(ins.Literal)
		}
	case OP_SET:
		err = cpu.set(ins.Regs[0], ins.Literal)
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// doAlu performs a three register arithmetic, logic or compare operation.
func doAlu(op Opcode, a, b int32) (value int32, err error) {
	switch op {
	case OP_ADD:
		value = a + b
	case OP_SUBT:
		value = a - b
	case OP_MULT:
		value = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a / b
	case OP_AND:
		value = a & b
	case OP_OR:
		value = a | b
	case OP_GT:
		value = boolValue(a > b)
	case OP_LT:
		value = boolValue(a < b)
	case OP_EQ:
		value = boolValue(a == b)
	default:
		err = ErrOpcodeUnknown
	}

	return
}

func boolValue(cond bool) int32 {
	if cond {
		return 1
	}
	return 0
}

func (cpu *Cpu) readInt() (value int32, err error) {
	if cpu.Console == nil {
		err = errors.Join(ErrConsole, ErrConsoleNone)
		return
	}

	value, err = cpu.Console.ReadInt()
	if err != nil {
		err = errors.Join(ErrConsole, err)
	}
	return
}

func (cpu *Cpu) readChar() (ch rune, err error) {
	if cpu.Console == nil {
		err = errors.Join(ErrConsole, ErrConsoleNone)
		return
	}

	ch, err = cpu.Console.ReadChar()
	if err != nil {
		err = errors.Join(ErrConsole, err)
	}
	return
}

func (cpu *Cpu) output(write func(con Console) error) (err error) {
	if cpu.Console == nil {
		err = errors.Join(ErrConsole, ErrConsoleNone)
		return
	}

	err = write(cpu.Console)
	if err != nil {
		err = errors.Join(ErrConsole, err)
	}
	return
}

// coreDump formats count bytes of memory from addr as hex, eight bytes
// to a line.
func (cpu *Cpu) coreDump(addr int32, count int32) (text string, err error) {
	if count <= 0 {
		return
	}

	err = cpu.Memory.check(int64(addr), int(count))
	if err != nil {
		return
	}

	data := make([]byte, count)
	err = cpu.Memory.Read(addr, data)
	if err != nil {
		return
	}

	var sb strings.Builder
	for n, b := range data {
		if n%8 == 0 {
			fmt.Fprintf(&sb, "%04x:", uint32(addr)+uint32(n))
		}
		fmt.Fprintf(&sb, " %02x", b)
		if n%8 == 7 || n == len(data)-1 {
			sb.WriteString("\n")
		}
	}

	text = sb.String()
	return
}
