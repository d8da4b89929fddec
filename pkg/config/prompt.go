package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/howeyc/gopass"
)

// Prompter asks the user for credentials
type Prompter interface {
	Username() (string, error)
	Password() (string, error)
}

// TerminalPrompter reads the username in clear and the password masked
type TerminalPrompter struct {
	in  *os.File
	out io.Writer
}

// NewTerminalPrompter builds a prompter on a terminal (usually os.Stdin and os.Stderr)
func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// Username prompt
func (p *TerminalPrompter) Username() (string, error) {
	if _, err := fmt.Fprint(p.out, "name: "); err != nil {
		return "", err
	}
	return readLine(p.in)
}

// Password prompt, with masked input
func (p *TerminalPrompter) Password() (string, error) {
	pass, err := gopass.GetPasswdPrompt("password: ", true, p.in, p.out)
	if err != nil {
		return "", err
	}
	return string(pass), nil
}

// readLine reads up to the end of line, one byte at a time so that
// no input meant for the password prompt gets buffered here.
func readLine(r io.Reader) (string, error) {
	var (
		line strings.Builder
		b    [1]byte
	)
	for {
		n, err := r.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				break
			}
			line.WriteByte(b[0])
		}
		if err == io.EOF {
			if line.Len() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(line.String(), "\r"), nil
}
