package io

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_ReadInt(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("  12 \n-3\r\nabc\n99999999999\n")}

	value, err := tape.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(12), value)

	value, err = tape.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(-3), value)

	_, err = tape.ReadInt()
	assert.ErrorIs(err, ErrInputNumber)

	_, err = tape.ReadInt()
	assert.ErrorIs(err, ErrInputNumber)

	_, err = tape.ReadInt()
	assert.ErrorIs(err, io.EOF)
}

func TestTape_ReadChar(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("xy\n\nz")}

	for _, expected := range []rune{'x', '\n', 'z'} {
		ch, err := tape.ReadChar()
		assert.NoError(err)
		assert.Equal(expected, ch)
	}

	_, err := tape.ReadChar()
	assert.ErrorIs(err, io.EOF)
}

func TestTape_Write(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(tape.WriteInt(-5))
	assert.Equal("-5\n", output.String())

	assert.NoError(tape.WriteChar('a'))
	assert.NoError(tape.WriteString("bc"))
	assert.Equal("-5\n", output.String())

	assert.NoError(tape.Flush())
	assert.Equal("-5\nabc", output.String())

	assert.NoError(tape.WriteString("d\ne"))
	assert.Equal("-5\nabcd\ne", output.String())
}

func TestTape_Prompt(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{
		Input:  strings.NewReader("7\n"),
		Output: output,
	}

	assert.NoError(tape.WriteString("? "))
	assert.Equal("", output.String())

	value, err := tape.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(7), value)
	assert.Equal("? ", output.String())
}

func TestTape_Rewind(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1\n2\n")}

	value, err := tape.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(1), value)

	tape.Rewind()
	tape.Input = strings.NewReader("9\n")

	value, err = tape.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(9), value)
}

func TestTape_None(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	_, err := tape.ReadInt()
	assert.ErrorIs(err, ErrNoInput)
	_, err = tape.ReadChar()
	assert.ErrorIs(err, ErrNoInput)

	assert.ErrorIs(tape.WriteInt(1), ErrNoOutput)
	assert.ErrorIs(tape.WriteChar('x'), ErrNoOutput)
	assert.NoError(tape.Flush())
}
