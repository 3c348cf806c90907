package cpu

import (
	"errors"

	"github.com/ezrec/sacrisc/translate"
)

var f = translate.From

var (
	// Runtime faults
	ErrFaultRuntime  = errors.New(f("runtime fault"))
	ErrHalted        = errors.New(f("cpu halted"))
	ErrDivideByZero  = errors.New(f("divide by zero"))
	ErrRegisterRange = errors.New(f("register out of range"))
	ErrAddressRange  = errors.New(f("address out of range"))
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrConsole       = errors.New(f("console"))
	ErrConsoleNone   = errors.New(f("no console attached"))
)

// ErrAddress reports the memory address that could not be accessed.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address 0x%x out of range", int64(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressRange
}

// ErrRegister reports an operand byte that does not name a register.
type ErrRegister byte

func (er ErrRegister) Error() string {
	return f("register %d out of range", byte(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrRegisterRange
}

// ErrFault is a runtime fault at a specific instruction.
type ErrFault struct {
	Addr int32  // Address of the failing instruction.
	Code byte   // Opcode byte at Addr.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("%04x: opcode 0x%02x: %v", uint32(err.Addr), err.Code, err.Err)
}

func (err *ErrFault) Unwrap() []error {
	return []error{ErrFaultRuntime, err.Err}
}
