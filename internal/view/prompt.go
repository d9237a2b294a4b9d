package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptConfirmer asks on a terminal: a y/N question, then the reason
// when one is wanted.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
	// Reason is used instead of prompting when set.
	Reason string
}

// NewPromptConfirmer reads answers from in and writes questions to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer.
func (p *PromptConfirmer) Confirm(ctx context.Context, req ConfirmationRequest) (ConfirmationResponse, error) {
	if err := ctx.Err(); err != nil {
		return ConfirmationResponse{}, err
	}
	prompt := req.Message
	if req.Destructive {
		prompt += " This cannot be undone."
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	answer, err := p.readLine()
	if err != nil {
		return ConfirmationResponse{}, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
	default:
		return ConfirmationResponse{Confirmed: false}, nil
	}

	resp := ConfirmationResponse{Confirmed: true, Reason: p.Reason}
	if req.AskReason && resp.Reason == "" {
		fmt.Fprint(p.out, "Reason (optional): ")
		if resp.Reason, err = p.readLine(); err != nil {
			return ConfirmationResponse{}, err
		}
	}
	return resp, nil
}

func (p *PromptConfirmer) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
