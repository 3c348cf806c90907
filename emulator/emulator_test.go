package emulator

import (
	"bytes"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sacrisc/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(cpu.MEMORY_SIZE, emu.Cpu.Memory.Size())
	assert.False(emu.Cpu.Active)

	emu = NewEmulator(256)
	assert.Equal(256, emu.Cpu.Memory.Size())

	defines := maps.Collect(emu.Defines())
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("17", defines["REG_SP"])
	assert.Equal("4", defines["WORD_SIZE"])

	err := emu.Run()
	assert.ErrorIs(err, ErrNoProgram)
	assert.ErrorIs(emu.Reset(), ErrNoProgram)
}

func doRunSingle(emu *Emulator, program []string, input string, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	prog, err := emu.Assembler().Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	err = emu.LoadProgram(prog, 0)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	emu.Tape.Input = strings.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run()

	output = tape_output.String()
	return
}

func TestEmulatorLoop(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"SET $1 3       # counter",
		"SET $2 1",
		"SET $3 0",
		"LOOP:",
		"OUTPUT $1",
		"SUBT $1 $2 $1",
		"GT $1 $3 $4",
		"BRANCH_LABEL $4 LOOP",
		"HALT",
	}

	output, err := doRunSingle(emu, program, "", t)
	assert.NoError(err)
	assert.Equal("3\n2\n1\n", output)
	assert.False(emu.Cpu.Active)
	assert.Equal(3+3*5+1, emu.Ticks())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"# comment",
		"SET $1 3",
		"",
		"COPY $1 $2",
		"HALT",
	}

	prog, err := emu.Assembler().Assemble(program)
	assert.NoError(err)
	err = emu.LoadProgram(prog, 0)
	assert.NoError(err)

	for _, lineno := range []int{2, 4, 5} {
		assert.Equal(lineno, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(lineno == 5, done)
	}

	assert.Equal(int32(3), emu.Cpu.Register[2])
}

func TestEmulatorConsole(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"INPUT",
		"OUTPUT $rs",
		"INPUT_CHAR",
		"OUTPUT_CHAR $rs",
		"INPUT_CHAR",
		"OUTPUT $rs",
		"HALT",
	}

	output, err := doRunSingle(emu, program, "42\nxyz\n\n", t)
	assert.NoError(err)
	assert.Equal("42\nx10\n", output)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"SET $1 MEMORY_SIZE",
		"OUTPUT $1",
		`.EQU TOP "MEMORY_SIZE - WORD_SIZE"`,
		"SET $1 TOP",
		"OUTPUT $1",
		"HALT",
	}

	output, err := doRunSingle(emu, program, "", t)
	assert.NoError(err)
	assert.Equal("4096\n4092\n", output)
}

func TestEmulatorStack(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"SET $1 11",
		"PUSH_STK $1",
		"OUTPUT $sp",
		"POP_STK $2",
		"OUTPUT $2",
		"OUTPUT $sp",
		"HALT",
	}

	// 6 + 2*5 + 1 = 17 bytes of image, so the stack starts at 20.
	output, err := doRunSingle(emu, program, "", t)
	assert.NoError(err)
	assert.Equal("24\n11\n20\n", output)
}

func TestEmulatorString(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"LOAD_LIT MSG",
		"OUTPUT_STR $rs",
		"SET $1 0",
		"SET $2 4",
		"CORE_DUMP $1 $2",
		"HALT",
		`MSG: .STRING "Hi\n"`,
	}

	output, err := doRunSingle(emu, program, "", t)
	assert.NoError(err)
	assert.Equal("Hi\n0000: 1d 00 00 00\n", output)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	program := []string{
		"SET $1 1",
		"SET $2 0",
		"OUTPUT $1",
		"DIV $1 $2 $3",
		"HALT",
	}

	output, err := doRunSingle(emu, program, "", t)
	assert.Equal("1\n", output)
	assert.ErrorIs(err, cpu.ErrFaultRuntime)
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(4, runtime.LineNo)
		assert.Equal(int32(14), runtime.Addr)
	}

	var fault *cpu.ErrFault
	if assert.ErrorAs(err, &fault) {
		assert.Equal(int32(14), fault.Addr)
		assert.Equal(byte(cpu.OP_DIV), fault.Code)
	}

	assert.False(emu.Cpu.Active)
	assert.Equal(int32(14), emu.Cpu.Pc())
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	emu.MaxTicks = 10

	_, err := doRunSingle(emu, []string{"FOREVER: JUMP_LABEL FOREVER"}, "", t)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(10, emu.Ticks())
	assert.False(emu.Cpu.Active)
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(64)

	image := []byte{
		0x20, 0x01, 0x00, 0x00, 0x00, 0x07, // SET $1 7
		0x12, 0x01, // OUTPUT $1
		0xFF, // HALT
	}

	err := emu.Load(image, 0x20)
	assert.NoError(err)
	assert.Nil(emu.Program)
	assert.Equal(int32(0x20), emu.Cpu.Pc())
	assert.Equal(int32(0x2C), emu.Cpu.Register[cpu.REG_SP])
	assert.True(emu.Cpu.Active)
	assert.Equal(0, emu.LineNo())

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output
	assert.NoError(emu.Run())
	assert.Equal("7\n", tape_output.String())

	assert.NoError(emu.Reset())
	assert.True(emu.Cpu.Active)
	assert.Equal(int32(0x20), emu.Cpu.Pc())
	assert.NoError(emu.Run())
	assert.Equal("7\n7\n", tape_output.String())

	err = emu.Load(image, 60)
	assert.ErrorIs(err, ErrImageFit)
	assert.ErrorIs(err, cpu.ErrAddressRange)
	assert.ErrorIs(emu.Run(), ErrNoProgram)
}

func TestEmulatorResetFlush(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(64)

	image := []byte{
		0x20, 0x01, 0x00, 0x00, 0x00, 0x41, // SET $1 'A'
		0x13, 0x01, // OUTPUT_CHAR $1
		0xFF, // HALT
	}
	assert.NoError(emu.Load(image, 0))

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	for range 2 {
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}
	assert.Equal("", tape_output.String())

	assert.NoError(emu.Reset())
	assert.Equal("A", tape_output.String())

	assert.NoError(emu.Run())
	assert.Equal("AA", tape_output.String())
}

func TestEmulatorLoadImage(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	prog, err := emu.Assembler().Assemble([]string{"SET $1 -5", "OUTPUT $1", "HALT"})
	assert.NoError(err)
	assert.NoError(emu.Depot.Put("neg", prog.Binary()))

	err = emu.LoadImage("missing", 0)
	assert.Error(err)

	err = emu.LoadImage("neg", 0)
	assert.NoError(err)

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output
	assert.NoError(emu.Run())
	assert.Equal("-5\n", tape_output.String())
}
