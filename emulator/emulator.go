// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/sacrisc/asm"
	"github.com/ezrec/sacrisc/cpu"
	"github.com/ezrec/sacrisc/internal"
	"github.com/ezrec/sacrisc/io"
)

// Emulator state. CPU + memory + console and image depot.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Listing of the loaded program, if assembled.

	Tape  io.Tape  // Console for the CPU.
	Depot io.Depot // Stored images.

	Base     int32 // Load address of the current image.
	MaxTicks int   // If non-zero, the maximum ticks per run.

	image []byte
}

// NewEmulator creates a new emulator with size bytes of memory. A
// size of zero or less selects cpu.MEMORY_SIZE.
func NewEmulator(size int) (emu *Emulator) {
	if size <= 0 {
		size = cpu.MEMORY_SIZE
	}

	emu = &Emulator{}
	emu.Cpu = cpu.NewCpu(cpu.NewMemory(size), &emu.Tape)

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"MEMORY_SIZE": fmt.Sprint(emu.Cpu.Memory.Size()),
	}

	return internal.ConcatSeq2(maps.All(defines), emu.Cpu.Defines())
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (as *asm.Assembler) {
	as = &asm.Assembler{Verbose: emu.Verbose}

	defines := maps.Collect(emu.Defines())
	for _, name := range slices.Sorted(maps.Keys(defines)) {
		as.Predefine(name, defines[name])
	}

	return
}

// Load copies image into memory at base, and resets the CPU to run it.
// The stack starts at the first word boundary after the image.
func (emu *Emulator) Load(image []byte, base int32) (err error) {
	mem := emu.Cpu.Memory

	// Pending output from the previous run is kept.
	err = emu.Tape.Flush()
	if err != nil {
		return
	}

	emu.Program = nil
	emu.image = nil

	mem.Reset()
	err = mem.Write(base, image)
	if err != nil {
		err = errors.Join(ErrImageFit, err)
		return
	}

	emu.image = slices.Clone(image)
	emu.Base = base
	emu.Tape.Rewind()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(base)

	sp := base + int32(len(image))
	sp = (sp + cpu.WORD_SIZE - 1) &^ (cpu.WORD_SIZE - 1)
	emu.Cpu.Register[cpu.REG_SP] = sp

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes at 0x%04x, sp 0x%04x", len(image), base, sp)
	}

	return
}

// LoadProgram loads an assembled program at base.
func (emu *Emulator) LoadProgram(prog *asm.Program, base int32) (err error) {
	err = emu.Load(prog.Binary(), base)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadImage loads the named image from the depot at base.
func (emu *Emulator) LoadImage(name string, base int32) (err error) {
	image, err := emu.Depot.Get(name)
	if err != nil {
		return
	}

	err = emu.Load(image, base)
	return
}

// Reset reloads the current image, keeping its program listing.
func (emu *Emulator) Reset() (err error) {
	if emu.image == nil {
		err = ErrNoProgram
		return
	}

	prog := emu.Program
	err = emu.Load(emu.image, emu.Base)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number of the instruction at PC, or
// 0 if there is no program listing.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(int(emu.Cpu.Pc() - emu.Base))
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction. done is set once the CPU has
// halted.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Active {
		done = true
		return
	}

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Addr: pc, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		emu.Cpu.Active = false
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = !emu.Cpu.Active
	return
}

// Run ticks the emulator until the CPU halts or faults. Console output
// is flushed before returning.
func (emu *Emulator) Run() (err error) {
	if emu.image == nil {
		err = ErrNoProgram
		return
	}

	defer func() {
		ferr := emu.Tape.Flush()
		if err == nil {
			err = ferr
		}
	}()

	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
