// Package errors defines error types for the mini app SDK.
//
// This package provides structured error types for the failure classes of the
// frame messaging protocol: invalid outbound requests, transport failures and
// channel establishment failures. All error types support error unwrapping and
// can be checked using errors.Is, errors.As, and errors.AsType.
package errors
