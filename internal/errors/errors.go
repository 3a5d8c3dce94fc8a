package errors

import (
	"errors"
	"fmt"
)

// MiniAppError is the base interface for all SDK errors.
type MiniAppError interface {
	error
	IsMiniAppError() bool
}

// Compile-time verification that all error types implement MiniAppError.
var (
	_ MiniAppError = (*TransferError)(nil)
	_ MiniAppError = (*MessageParseError)(nil)
	_ MiniAppError = (*DataCloneError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrUnknownMessageType indicates the discriminant is not in the allow-list
	// for the direction it was used in.
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrMalformedMessage indicates boundary data that is not a keyed structure
	// or lacks a string type field.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrNoChannel indicates no live channel port is currently retained.
	ErrNoChannel = errors.New("no channel established")

	// ErrPortClosed indicates a write to a port whose channel has been closed.
	ErrPortClosed = errors.New("port closed")

	// ErrWindowDetached indicates the target window no longer exists.
	ErrWindowDetached = errors.New("window detached")

	// ErrNoTargetWindow indicates the host has no embedded window to talk to.
	ErrNoTargetWindow = errors.New("no target window")

	// ErrNoParentWindow indicates the client is not embedded in a parent context.
	ErrNoParentWindow = errors.New("no parent window")
)

// TransferError indicates the host could not hand a channel port to the
// embedded window. The partially created channel has already been closed.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to transfer channel port: %v", e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsMiniAppError implements MiniAppError.
func (e *TransferError) IsMiniAppError() bool { return true }

// MessageParseError indicates inbound data could not be decoded into one of
// the known message variants.
type MessageParseError struct {
	Message string
	Err     error
	Data    map[string]any
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("failed to parse message: %v", e.Err)
}

func (e *MessageParseError) Unwrap() error {
	return e.Err
}

// IsMiniAppError implements MiniAppError.
func (e *MessageParseError) IsMiniAppError() bool { return true }

// DataCloneError indicates a value could not be copied across the boundary.
type DataCloneError struct {
	Err error
}

func (e *DataCloneError) Error() string {
	return fmt.Sprintf("failed to clone message data: %v", e.Err)
}

func (e *DataCloneError) Unwrap() error {
	return e.Err
}

// IsMiniAppError implements MiniAppError.
func (e *DataCloneError) IsMiniAppError() bool { return true }
