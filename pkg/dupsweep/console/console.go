// Package console provides a line-oriented operator console over a reader
// and writer pair.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Console writes messages and reads one line of input per prompt.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Std returns a console bound to the process's stdin and stdout.
func Std() *Console {
	return New(os.Stdin, os.Stdout)
}

// Output writes message followed by a newline.
func (c *Console) Output(message string) {
	fmt.Fprintln(c.out, message)
}

// Prompt writes message and blocks for one line of input. The trailing
// newline is stripped. An empty line returns "". When the input is
// exhausted before any data is read, Prompt returns io.EOF.
func (c *Console) Prompt(message string) (string, error) {
	if _, err := io.WriteString(c.out, message); err != nil {
		return "", err
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
