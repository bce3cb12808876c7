// Package prompt asks the operator questions on the controlling terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal reads answers from stdin and writes questions to stderr so
// that stdout stays usable for command output.
func NewTerminal() *Terminal {
	return New(os.Stdin, os.Stderr)
}

func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
	if f, ok := in.(*os.File); ok {
		t.fd = int(f.Fd())
	}
	return t
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (t *Terminal) Confirm(description string) bool {
	fmt.Fprintf(t.out, "%s? [y/N]: ", description)
	answer, err := t.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// PromptCredential reads the API key without echo when attached to a terminal.
func (t *Terminal) PromptCredential() (string, error) {
	fmt.Fprint(t.out, "Enter API key (prefix.secret): ")
	var key string
	if t.fd >= 0 && term.IsTerminal(t.fd) {
		b, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("reading api key: %w", err)
		}
		key = strings.TrimSpace(string(b))
	} else {
		line, err := t.readLine()
		if err != nil {
			return "", fmt.Errorf("reading api key: %w", err)
		}
		key = line
	}
	if key == "" {
		return "", errors.New("api key cannot be empty")
	}
	return key, nil
}

func (t *Terminal) Prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
