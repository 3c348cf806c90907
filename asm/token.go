package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/sacrisc/cpu"
)

// TokenKind is the type of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_LABEL      = TokenKind(0) // label
	TOKEN_IDENTIFIER = TokenKind(1) // identifier
	TOKEN_COMMAND    = TokenKind(2) // command
	TOKEN_REGISTER   = TokenKind(3) // register
	TOKEN_NUMBER     = TokenKind(4) // number
	TOKEN_STRING     = TokenKind(5) // string
)

// Token is a single lexical element of a source line.
type Token struct {
	Kind   TokenKind
	Text   string
	Column int // 1-based column of the first character.
}

// NewToken creates a token, normalizing its text.
//   - String tokens have their escapes resolved.
//   - All other tokens are upper-cased.
//   - Identifiers that name a mnemonic become commands.
func NewToken(kind TokenKind, text string, column int) (tok Token) {
	tok = Token{Kind: kind, Column: column}

	if kind == TOKEN_STRING {
		tok.Text = unescape(text)
		return
	}

	tok.Text = strings.ToUpper(text)
	if kind == TOKEN_IDENTIFIER {
		if _, ok := cpu.Lookup(tok.Text); ok {
			tok.Kind = TOKEN_COMMAND
		}
	}

	return
}

func (tok Token) String() string {
	return fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
}

// unescape resolves backslash escapes: \n and \t are newline and tab,
// any other escaped character stands for itself.
func unescape(text string) string {
	var sb strings.Builder
	escaped := false
	for _, ch := range text {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		if escaped {
			switch ch {
			case 'n':
				ch = '\n'
			case 't':
				ch = '\t'
			}
			escaped = false
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
