package signer

import "io"

// Signer signs extraction outputs
type Signer interface {
	// SignDetached creates an armored detached signature of everything read from r
	SignDetached(r io.Reader) ([]byte, error)

	// PublicKey returns the armored public key matching the signatures
	PublicKey() ([]byte, error)
}
