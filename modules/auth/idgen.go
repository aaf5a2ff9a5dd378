package auth

import (
	"fmt"
	"strings"

	nanoid "github.com/jaevor/go-nanoid"
)

// Alphanumeric characters used for address ids.
const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	addressIDPrefix = "addr_"
	addressIDLength = 12
)

// IDGenerator produces address ids of the form addr_<nanoid>.
type IDGenerator struct {
	next func() string
}

// NewIDGenerator creates an IDGenerator backed by nanoid.
func NewIDGenerator() (*IDGenerator, error) {
	gen, err := nanoid.CustomASCII(idAlphabet, addressIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &IDGenerator{next: gen}, nil
}

// AddressID returns a fresh address id.
func (g *IDGenerator) AddressID() string {
	return addressIDPrefix + g.next()
}

// IsValidAddressID checks that id has the generated shape.
func IsValidAddressID(id string) bool {
	code, ok := strings.CutPrefix(id, addressIDPrefix)
	if !ok || len(code) != addressIDLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(idAlphabet, c) {
			return false
		}
	}
	return true
}
