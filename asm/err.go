package asm

import (
	"errors"

	"github.com/ezrec/sacrisc/translate"
)

var f = translate.From

var (
	// Error taxonomy
	ErrParse           = errors.New(f("parse error"))
	ErrUnknownArgument = errors.New(f("unknown argument"))

	// Parse errors
	ErrNumberChar     = errors.New(f("unexpected character in number"))
	ErrNumberEnd      = errors.New(f("unexpected end of number"))
	ErrIdentifierChar = errors.New(f("unexpected character in identifier"))
	ErrStringEnd      = errors.New(f("incomplete string"))
	ErrRegisterName   = errors.New(f("unknown register"))

	// Argument errors
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeMissing   = errors.New(f("command missing"))
	ErrOpcodeInvalid   = errors.New(f("command invalid"))
	ErrArgCount        = errors.New(f("wrong number of arguments"))
	ErrArgKind         = errors.New(f("wrong kind of argument"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrStringSyntax    = errors.New(f(".string syntax"))
)

// ErrLabelMissing is a reference to a label that was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrLiteral is an operand that is neither a number, an equate nor a label.
type ErrLiteral string

func (el ErrLiteral) Error() string {
	return f("'%v' is not a number, equate or label", string(el))
}

// ErrExpression is an equate expression that does not evaluate to a
// 32-bit integer.
type ErrExpression string

func (ee ErrExpression) Error() string {
	return f("'%v' is not a valid expression", string(ee))
}

// ErrSyntax reports an assembly error at a source location.
type ErrSyntax struct {
	LineNo int    // 1-based source line.
	Column int    // 1-based column, or 0 if not applicable.
	Line   string // Source text of the line.
	Err    error
}

func (err *ErrSyntax) Error() string {
	if err.Column > 0 {
		return f("line %d column %d '%v' %v", err.LineNo, err.Column, err.Line, err.Err)
	}
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// parseError creates a parse error at a column.
func parseError(line string, lineno int, column int, err error) *ErrSyntax {
	return &ErrSyntax{
		LineNo: lineno,
		Column: column,
		Line:   line,
		Err:    errors.Join(ErrParse, err),
	}
}

// argumentError creates an unknown argument error for a line.
func argumentError(line string, lineno int, err error) *ErrSyntax {
	return &ErrSyntax{
		LineNo: lineno,
		Line:   line,
		Err:    errors.Join(ErrUnknownArgument, err),
	}
}
