package view

import (
	"context"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Level grades a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message shown after a user gesture.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// ConfirmationRequest is the question put to the user before an action.
type ConfirmationRequest struct {
	Resource    string            `json:"resource"`
	RecordID    string            `json:"recordId"`
	Action      domain.ActionKind `json:"action"`
	Message     string            `json:"message"`
	AskReason   bool              `json:"askReason,omitempty"`
	Destructive bool              `json:"destructive,omitempty"`
}

// ConfirmationResponse is the user's answer.
type ConfirmationResponse struct {
	Confirmed bool   `json:"confirmed"`
	Reason    string `json:"reason,omitempty"`
}

// Confirmer asks the user to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (ConfirmationResponse, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, req ConfirmationRequest) (ConfirmationResponse, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, req ConfirmationRequest) (ConfirmationResponse, error) {
	return f(ctx, req)
}

// AutoConfirm accepts every request with a fixed reason.
func AutoConfirm(reason string) Confirmer {
	return ConfirmFunc(func(context.Context, ConfirmationRequest) (ConfirmationResponse, error) {
		return ConfirmationResponse{Confirmed: true, Reason: reason}, nil
	})
}
