package asm

import (
	"strings"
	"unicode"

	"github.com/ezrec/sacrisc/cpu"
)

// tokenState is a state of the tokenizer's finite state machine.
type tokenState int

const (
	stateStart tokenState = iota
	stateNegativeNumber
	stateNumber
	stateLabelOrIdentifier
	stateRegister
	stateInString
	stateEscape
)

// tokenizer is the state for tokenizing a single line.
type tokenizer struct {
	line   string
	lineno int

	state  tokenState
	text   strings.Builder
	start  int // Column of the pending token.
	tokens []Token
}

// Tokenize splits one source line into tokens.
//
// A '#' outside of a string starts a comment that runs to the end of
// the line. Errors are returned as *ErrSyntax, joined with ErrParse, and
// report the column of the offending character.
func Tokenize(line string, lineno int) (tokens []Token, err error) {
	tz := &tokenizer{
		line:   line,
		lineno: lineno,
	}

	column := 0
	for _, ch := range line {
		column++
		var done bool
		done, err = tz.next(ch, column)
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	err = tz.finish(column)
	if err != nil {
		return
	}

	tokens = tz.tokens
	return
}

// begin starts a new pending token.
func (tz *tokenizer) begin(state tokenState, column int) {
	tz.state = state
	tz.start = column
	tz.text.Reset()
}

// emit appends the pending token, and returns to the start state.
func (tz *tokenizer) emit(kind TokenKind) {
	tz.tokens = append(tz.tokens, NewToken(kind, tz.text.String(), tz.start))
	tz.state = stateStart
	tz.text.Reset()
}

// registerPrefix returns true if name starts some valid register name.
func registerPrefix(name string) bool {
	name = strings.ToUpper(name)
	for index := byte(0); index < cpu.REGISTER_TOTAL; index++ {
		if strings.HasPrefix(strings.ToUpper(cpu.RegisterName(index)), name) {
			return true
		}
	}
	return false
}

// registerColumn returns the column of the first character that makes
// a register name invalid. The register's '$' is at column start.
func registerColumn(name string, start int) (column int) {
	runes := []rune(name)
	if len(runes) == 0 {
		return start
	}

	for n := range runes {
		if !registerPrefix(string(runes[:n+1])) {
			return start + 1 + n
		}
	}

	// Incomplete name.
	return start + len(runes)
}

// emitRegister validates and appends the pending register token.
func (tz *tokenizer) emitRegister() (err error) {
	name := tz.text.String()
	if _, ok := cpu.RegisterIndex(name); !ok {
		err = parseError(tz.line, tz.lineno, registerColumn(name, tz.start), ErrRegisterName)
		return
	}

	tz.emit(TOKEN_REGISTER)
	return
}

// next advances the state machine by one character. It returns done
// when the rest of the line is a comment.
func (tz *tokenizer) next(ch rune, column int) (done bool, err error) {
	space := unicode.IsSpace(ch)

	switch tz.state {
	case stateStart:
		switch {
		case space:
			// skip
		case ch == '#':
			done = true
		case ch == '"':
			tz.begin(stateInString, column)
		case ch >= '0' && ch <= '9':
			tz.begin(stateNumber, column)
			tz.text.WriteRune(ch)
		case ch == '-':
			tz.begin(stateNegativeNumber, column)
			tz.text.WriteRune(ch)
		case ch == '$':
			// The '$' is not part of the register name.
			tz.begin(stateRegister, column)
		default:
			tz.begin(stateLabelOrIdentifier, column)
			tz.text.WriteRune(ch)
		}
	case stateNegativeNumber:
		if ch < '0' || ch > '9' {
			err = parseError(tz.line, tz.lineno, column, ErrNumberChar)
			return
		}
		tz.text.WriteRune(ch)
		tz.state = stateNumber
	case stateNumber:
		switch {
		case space:
			tz.emit(TOKEN_NUMBER)
		case ch == '#':
			tz.emit(TOKEN_NUMBER)
			done = true
		case ch >= '0' && ch <= '9':
			tz.text.WriteRune(ch)
		default:
			err = parseError(tz.line, tz.lineno, column, ErrNumberChar)
		}
	case stateLabelOrIdentifier:
		switch {
		case space:
			tz.emit(TOKEN_IDENTIFIER)
		case ch == '#':
			tz.emit(TOKEN_IDENTIFIER)
			done = true
		case ch == ':':
			tz.emit(TOKEN_LABEL)
		case ch == '"' || ch == '-':
			err = parseError(tz.line, tz.lineno, column, ErrIdentifierChar)
		default:
			tz.text.WriteRune(ch)
		}
	case stateRegister:
		switch {
		case space:
			err = tz.emitRegister()
		case ch == '#':
			err = tz.emitRegister()
			done = true
		default:
			tz.text.WriteRune(ch)
		}
	case stateInString:
		switch ch {
		case '"':
			tz.emit(TOKEN_STRING)
		case '\\':
			// Escapes are resolved by NewToken.
			tz.text.WriteRune(ch)
			tz.state = stateEscape
		default:
			tz.text.WriteRune(ch)
		}
	case stateEscape:
		tz.text.WriteRune(ch)
		tz.state = stateInString
	}

	return
}

// finish flushes any token still pending at the end of the line.
func (tz *tokenizer) finish(column int) (err error) {
	switch tz.state {
	case stateNegativeNumber:
		err = parseError(tz.line, tz.lineno, column, ErrNumberEnd)
	case stateNumber:
		tz.emit(TOKEN_NUMBER)
	case stateLabelOrIdentifier:
		tz.emit(TOKEN_IDENTIFIER)
	case stateRegister:
		err = tz.emitRegister()
	case stateInString, stateEscape:
		err = parseError(tz.line, tz.lineno, column, ErrStringEnd)
	}

	return
}
