package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tape is a line-buffered Console over an io.Reader and io.Writer.
// Output is flushed at each newline, and before each read so that
// prompts are visible.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	writer *bufio.Writer
}

var _ Console = (*Tape)(nil)

// Rewind drops any buffered input and pending output.
func (tc *Tape) Rewind() {
	tc.reader = nil
	tc.writer = nil
}

// readLine returns the next input line without its line terminator.
func (tc *Tape) readLine() (line string, err error) {
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	err = tc.Flush()
	if err != nil {
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	line, err = tc.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return
	}

	line = strings.TrimRight(line, "\r\n")
	return
}

// ReadInt reads a decimal integer from the next input line.
func (tc *Tape) ReadInt() (value int32, err error) {
	line, err := tc.readLine()
	if err != nil {
		return
	}

	v64, err := strconv.ParseInt(strings.TrimSpace(line), 10, 32)
	if err != nil {
		err = errors.Join(ErrInputNumber, err)
		return
	}

	value = int32(v64)
	return
}

// ReadChar reads the first character of the next input line. An empty
// line reads as a newline.
func (tc *Tape) ReadChar() (ch rune, err error) {
	line, err := tc.readLine()
	if err != nil {
		return
	}

	ch = '\n'
	for _, first := range line {
		ch = first
		break
	}

	return
}

func (tc *Tape) write(text string) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	if tc.writer == nil {
		tc.writer = bufio.NewWriter(tc.Output)
	}

	_, err = tc.writer.WriteString(text)
	if err != nil {
		return
	}

	if strings.ContainsRune(text, '\n') {
		err = tc.writer.Flush()
	}

	return
}

// WriteInt writes value in decimal, followed by a newline.
func (tc *Tape) WriteInt(value int32) error {
	return tc.write(fmt.Sprintf("%d\n", value))
}

// WriteChar writes a single character.
func (tc *Tape) WriteChar(ch rune) error {
	return tc.write(string(ch))
}

// WriteString writes text.
func (tc *Tape) WriteString(text string) error {
	return tc.write(text)
}

// Flush writes out any buffered output.
func (tc *Tape) Flush() (err error) {
	if tc.writer == nil {
		return
	}

	err = tc.writer.Flush()
	return
}
