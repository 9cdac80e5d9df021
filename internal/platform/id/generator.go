package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque identifiers and short challenge codes.
type Generator interface {
	NewID() (string, error)
	NewCode(length int) (string, error)
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewCode returns an uppercase alphanumeric challenge code. The alphabet
// drops lookalike characters since users retype the code into a motto field.
func (g *RandomGenerator) NewCode(length int) (string, error) {
	if length <= 0 {
		length = 5
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(out), nil
}
