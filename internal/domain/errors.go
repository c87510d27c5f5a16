package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed or out-of-range request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptCart indicates a stored cart document that exists but does
	// not parse. Normal loads mask this as an empty cart; the guest→wallet
	// migration must surface it so item loss does not go unnoticed.
	ErrCorruptCart = errors.New("corrupt cart document")

	// ErrSessionMismatch indicates a migration request whose session id does
	// not match the caller's cookie.
	ErrSessionMismatch = errors.New("session id mismatch")
)
