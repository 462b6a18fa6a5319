package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Confirmer blocks until the user confirms or cancels.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, title, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

// Always answers every dialog the same way; Always(true) backs -yes.
type Always bool

func (a Always) Confirm(context.Context, string, string) (bool, error) {
	return bool(a), nil
}

// Ask runs fn only after confirmation. Cancel has no side effect.
func Ask(ctx context.Context, c Confirmer, title, message string, fn func() error) (bool, error) {
	ok, err := c.Confirm(ctx, title, message)
	if err != nil || !ok {
		return false, err
	}
	return true, fn()
}

// Prompt asks on a terminal and accepts y or yes. End of input cancels.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) Confirm(ctx context.Context, title, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "⚠ %s\n%s [y/N]: ", title, message)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
