package cipher

import "errors"

var (
	// ErrInvalidIdentifier means key derivation was given an
	// identifier that is not exactly 6 bytes
	ErrInvalidIdentifier = errors.New("invalid hub identifier")

	// ErrIdentifierFormat means a textual identifier did not reduce to
	// 12 hex characters
	ErrIdentifierFormat = errors.New("malformed identifier string")

	// ErrCiphertextSize means a buffer handed to Decrypt is empty or
	// not block-aligned
	ErrCiphertextSize = errors.New("ciphertext not a block multiple")
)
