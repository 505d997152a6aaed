// Package prompt reads interactive input line by line for the shell.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned when input ends before a line is read.
var ErrClosed = errors.New("input closed")

// Prompter writes prompts to out and reads answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New returns a Prompter over in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints prefix as is and returns the next input line without its line ending.
func (p *Prompter) Line(prefix string) (string, error) {
	fmt.Fprint(p.out, prefix)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrClosed
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// Ask prints "label: " and returns the answer.
func (p *Prompter) Ask(label string) (string, error) {
	return p.Line(label + ": ")
}

// Field is one value asked by Fill.
type Field struct {
	Label string
	Dest  *string
	// Default is kept when the answer is blank.
	Default string
}

// Fill asks for every field in order and stores the answers.
func (p *Prompter) Fill(fields ...Field) error {
	for _, f := range fields {
		label := f.Label
		if f.Default != "" {
			label += " [" + f.Default + "]"
		}
		v, err := p.Ask(label)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" && f.Default != "" {
			v = f.Default
		}
		*f.Dest = v
	}
	return nil
}
