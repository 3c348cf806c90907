// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sacrisc/cpu"
)

// Directives
const (
	DIRECTIVE_EQU    = ".EQU"    // .EQU NAME "expression"
	DIRECTIVE_STRING = ".STRING" // .STRING "text"
)

// predefine is an equate supplied before assembly starts.
type predefine struct {
	name string
	expr string
}

// Assembler is a two pass assembler for SAC-RISC.
//
// The first pass records labels and checks the shape of every line.
// The second pass encodes each line, then label references are patched
// from line numbers to byte offsets.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int   // Map of labels to line numbers, then byte offsets.
	Equate map[string]int32 // Map of equates.

	predefine []predefine
}

// Predefine defines a new equate or redefines an existing equate. The
// expression is evaluated at the start of each assembly, after the
// predefines before it.
func (asm *Assembler) Predefine(name string, expr string) {
	name = strings.ToUpper(name)
	for n := range asm.predefine {
		if asm.predefine[n].name == name {
			asm.predefine[n].expr = expr
			return
		}
	}
	asm.predefine = append(asm.predefine, predefine{name: name, expr: expr})
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var source []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		source = append(source, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	return asm.Assemble(source)
}

// Assemble assembles source lines into a Program. On any error no
// program is returned.
func (asm *Assembler) Assemble(source []string) (prog *Program, err error) {
	asm.Label = make(map[string]int)
	asm.Equate = make(map[string]int32)

	for _, pre := range asm.predefine {
		var value int32
		value, err = asm.evaluate(pre.expr)
		if err != nil {
			err = errors.Join(ErrUnknownArgument, ErrEquateSyntax, err)
			return
		}
		asm.Equate[pre.name] = value
	}

	err = asm.passLabels(source)
	if err != nil {
		return
	}

	lines, err := asm.passEncode(source)
	if err != nil {
		return
	}

	err = asm.link(source, lines)
	if err != nil {
		return
	}

	prog = &Program{
		Lines: lines,
	}

	return
}

// splitLabels separates the leading run of label tokens.
func splitLabels(tokens []Token) (labels []Token, rest []Token) {
	n := 0
	for n < len(tokens) && tokens[n].Kind == TOKEN_LABEL {
		n++
	}
	return tokens[:n], tokens[n:]
}

// passLabels records the line number of every label, evaluates
// equates, and checks that every line is a legal command and operand
// sequence.
func (asm *Assembler) passLabels(source []string) (err error) {
	for n, text := range source {
		lineno := n + 1

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		var tokens []Token
		tokens, err = Tokenize(text, lineno)
		if err != nil {
			return
		}

		labels, rest := splitLabels(tokens)
		for _, label := range labels {
			_, isLabel := asm.Label[label.Text]
			_, isEquate := asm.Equate[label.Text]
			if isLabel || isEquate {
				err = argumentError(text, lineno, errors.Join(ErrLabelDuplicate, ErrLabelMissing(label.Text)))
				return
			}
			asm.Label[label.Text] = lineno
		}

		if len(rest) == 0 {
			continue
		}

		err = validLine(rest)
		if err == nil && rest[0].Text == DIRECTIVE_EQU {
			if len(labels) != 0 {
				err = ErrEquateSyntax
			} else {
				err = asm.defineEquate(rest[1], rest[2])
			}
		}
		if err != nil {
			err = argumentError(text, lineno, err)
			return
		}
	}

	return
}

// registerToken returns true if the token can name a register.
func registerToken(tok Token) bool {
	return tok.Kind == TOKEN_REGISTER || tok.Kind == TOKEN_NUMBER
}

// literalToken returns true if the token can be a literal, equate or
// label reference.
func literalToken(tok Token) bool {
	return tok.Kind == TOKEN_NUMBER || tok.Kind == TOKEN_IDENTIFIER
}

// validLine checks the shape of a line with its labels removed.
func validLine(tokens []Token) (err error) {
	cmd := tokens[0]
	args := tokens[1:]

	if cmd.Kind == TOKEN_IDENTIFIER {
		switch cmd.Text {
		case DIRECTIVE_EQU:
			if len(args) != 2 {
				return ErrArgCount
			}
			if args[0].Kind != TOKEN_IDENTIFIER {
				return errors.Join(ErrEquateSyntax, ErrArgKind)
			}
			if args[1].Kind != TOKEN_STRING && args[1].Kind != TOKEN_NUMBER {
				return errors.Join(ErrEquateSyntax, ErrArgKind)
			}
			return
		case DIRECTIVE_STRING:
			if len(args) != 1 {
				return ErrArgCount
			}
			if args[0].Kind != TOKEN_STRING {
				return errors.Join(ErrStringSyntax, ErrArgKind)
			}
			return
		}
		return ErrOpcodeInvalid
	}

	if cmd.Kind != TOKEN_COMMAND {
		return ErrOpcodeMissing
	}

	info, _ := cpu.Lookup(cmd.Text)
	shape := info.Shape
	regs := shape.Registers()

	want := regs
	if shape.Literal() {
		want++
	}
	if len(args) != want {
		return ErrArgCount
	}

	for _, arg := range args[:regs] {
		if !registerToken(arg) {
			return ErrArgKind
		}
	}

	if shape.Literal() && !literalToken(args[regs]) {
		return ErrArgKind
	}

	return
}

// evaluate computes the value of an equate expression, which may refer
// to any equate already defined.
func (asm *Assembler) evaluate(expr string) (value int32, err error) {
	thread := &starlark.Thread{Name: "equ"}
	opts := &syntax.FileOptions{}

	pred := starlark.StringDict{}
	for name, val := range asm.Equate {
		pred[name] = starlark.MakeInt(int(val))
	}

	dict, err := starlark.ExecFileOptions(opts, thread, "equ", "rc = "+expr+"\n", pred)
	if err != nil {
		err = errors.Join(ErrExpression(expr), err)
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrExpression(expr)
		return
	}

	v64, ok := st_int.Int64()
	if !ok || v64 < math.MinInt32 || v64 > math.MaxUint32 {
		err = ErrExpression(expr)
		return
	}

	value = int32(uint32(v64))
	return
}

// defineEquate evaluates and records a .EQU directive.
func (asm *Assembler) defineEquate(name Token, expr Token) (err error) {
	_, isEquate := asm.Equate[name.Text]
	_, isLabel := asm.Label[name.Text]
	if isEquate || isLabel {
		err = errors.Join(ErrEquateDuplicate, ErrLiteral(name.Text))
		return
	}

	value, err := asm.evaluate(expr.Text)
	if err != nil {
		err = errors.Join(ErrEquateSyntax, err)
		return
	}

	asm.Equate[name.Text] = value
	return
}

// passEncode converts each line into its binary line variant. Label
// references hold the label's line number until link patches them.
func (asm *Assembler) passEncode(source []string) (lines []Line, err error) {
	nop, _ := cpu.Lookup("NOP")

	for n, text := range source {
		lineno := n + 1

		var tokens []Token
		tokens, err = Tokenize(text, lineno)
		if err != nil {
			return
		}
		if len(tokens) == 0 {
			continue
		}

		_, rest := splitLabels(tokens)
		if len(rest) == 0 {
			lines = append(lines, makeLine(lineno, nop))
			continue
		}

		switch rest[0].Text {
		case DIRECTIVE_EQU:
			continue
		case DIRECTIVE_STRING:
			lines = append(lines, Line{
				LineNo: lineno,
				Kind:   LINE_DATA,
				Data:   cpu.EncodeString(rest[1].Text),
			})
			continue
		}

		var line Line
		line, err = asm.encodeLine(lineno, rest)
		if err != nil {
			err = argumentError(text, lineno, err)
			return
		}
		lines = append(lines, line)
	}

	return
}

// encodeLine encodes a command and its operands.
func (asm *Assembler) encodeLine(lineno int, tokens []Token) (line Line, err error) {
	info, ok := cpu.Lookup(tokens[0].Text)
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	line = makeLine(lineno, info)
	args := tokens[1:]

	regs := info.Shape.Registers()
	for n, arg := range args[:regs] {
		line.Regs[n], err = parseRegister(arg)
		if err != nil {
			return
		}
	}

	if info.Shape.Literal() {
		err = asm.parseLiteral(&line, args[regs])
	}

	return
}

// parseRegister resolves a register operand to its index. Number
// tokens are taken as a raw register index.
func parseRegister(tok Token) (index byte, err error) {
	switch tok.Kind {
	case TOKEN_REGISTER:
		var ok bool
		index, ok = cpu.RegisterIndex(tok.Text)
		if ok {
			return
		}
	case TOKEN_NUMBER:
		value, perr := strconv.Atoi(tok.Text)
		if perr == nil && value >= 0 && value < cpu.REGISTER_TOTAL {
			index = byte(value)
			return
		}
	}

	err = errors.Join(ErrRegisterInvalid, ErrLiteral(tok.Text))
	return
}

// parseLiteral resolves a literal operand. It is tried as a signed
// 32-bit number, then as an equate, then as a label.
func (asm *Assembler) parseLiteral(line *Line, tok Token) (err error) {
	if tok.Kind == TOKEN_NUMBER {
		v64, perr := strconv.ParseInt(tok.Text, 10, 32)
		if perr == nil {
			line.Literal = int32(v64)
			return
		}
	}

	if value, ok := asm.Equate[tok.Text]; ok {
		line.Literal = value
		return
	}

	if lineno, ok := asm.Label[tok.Text]; ok {
		line.Literal = int32(lineno)
		line.LinkLabel = tok.Text
		return
	}

	if tok.Kind == TOKEN_IDENTIFIER {
		err = ErrLabelMissing(tok.Text)
	} else {
		err = ErrLiteral(tok.Text)
	}
	return
}

// link computes the byte offset of every line, and patches label
// references from line numbers to byte offsets.
func (asm *Assembler) link(source []string, lines []Line) (err error) {
	offsets := make(map[int]int, len(lines))

	addr := 0
	for n := range lines {
		line := &lines[n]
		line.Addr = addr
		offsets[line.LineNo] = addr
		addr += line.Len()
	}

	for n := range lines {
		line := &lines[n]
		if len(line.LinkLabel) == 0 {
			continue
		}

		offset, ok := offsets[int(line.Literal)]
		if !ok {
			err = argumentError(source[line.LineNo-1], line.LineNo, ErrLabelMissing(line.LinkLabel))
			return
		}
		line.Literal = int32(offset)

		if asm.Verbose {
			log.Printf("%v: link %v -> 0x%04x", line.LineNo, line.LinkLabel, offset)
		}
	}

	for label, lineno := range asm.Label {
		asm.Label[label] = offsets[lineno]
	}

	return
}
