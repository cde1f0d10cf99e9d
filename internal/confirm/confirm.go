// Package confirm gates destructive actions behind a yes/no question.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user to approve an action. Anything other than an
// explicit yes cancels.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Always answers every question with answer, e.g. for --yes.
type Always bool

// Confirm implements Confirmer.
func (a Always) Confirm(string) (bool, error) { return bool(a), nil }

// Prompt asks on out and reads the answer from in.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer. EOF counts as "no".
func (p *Prompt) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
