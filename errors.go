package miniapp

import "github.com/wagiedev/miniapp-sdk-go/internal/errors"

// Re-export error types from internal package

// TransferError indicates the host could not hand a channel port to the frame.
type TransferError = errors.TransferError

// MessageParseError indicates inbound data did not decode into a known variant.
type MessageParseError = errors.MessageParseError

// DataCloneError indicates a value could not be copied across the boundary.
type DataCloneError = errors.DataCloneError

// MiniAppError is the base interface for all SDK errors.
type MiniAppError = errors.MiniAppError

// Re-export sentinel errors from internal package.
var (
	// ErrUnknownMessageType indicates a discriminant outside the allow-list.
	ErrUnknownMessageType = errors.ErrUnknownMessageType

	// ErrMalformedMessage indicates boundary data without a keyed structure
	// or a string type field.
	ErrMalformedMessage = errors.ErrMalformedMessage

	// ErrNoChannel indicates no channel port is currently retained.
	ErrNoChannel = errors.ErrNoChannel

	// ErrPortClosed indicates a write to a closed channel.
	ErrPortClosed = errors.ErrPortClosed

	// ErrWindowDetached indicates the target window no longer exists.
	ErrWindowDetached = errors.ErrWindowDetached

	// ErrNoTargetWindow indicates the host has no frame to talk to.
	ErrNoTargetWindow = errors.ErrNoTargetWindow

	// ErrNoParentWindow indicates the mini app is not embedded.
	ErrNoParentWindow = errors.ErrNoParentWindow
)
