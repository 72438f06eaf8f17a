// Package idgen generates the short identifiers that name published
// snippets and their installation markers.
package idgen

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Length is the number of hex characters in a generated identifier.
const Length = 8

// Generator produces snippet identifiers. The snippet store accepts a
// Generator so tests can pin identifiers to fixed values.
type Generator func() string

// New returns a fresh identifier: 128 bits of randomness, hex encoded and
// truncated to Length characters. Uniqueness is probabilistic; the ledger's
// already-installed guard is the collision defense within a single document.
func New() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:Length]
}

// Fixed returns a Generator that always yields id.
func Fixed(id string) Generator {
	return func() string {
		return id
	}
}
