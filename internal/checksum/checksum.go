// Package checksum computes and checks digests of downloaded assets.
package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

// Algorithm represents a checksum hash algorithm.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
)

const expectedFormat = "sha256:<hex>, sha512:<hex> or a bare hex digest"

// Checksum is an algorithm and a hex digest.
type Checksum struct {
	Algorithm Algorithm
	Hex       string
}

// String returns the "algorithm:hex" form.
func (c Checksum) String() string {
	return string(c.Algorithm) + ":" + c.Hex
}

// Matches reports whether sum equals the digest, ignoring hex case.
func (c Checksum) Matches(sum string) bool {
	return strings.EqualFold(c.Hex, sum)
}

// Parse parses a checksum in "algorithm:hash" form. A bare digest is
// accepted when its length identifies the algorithm.
func Parse(value string) (Checksum, error) {
	value = strings.TrimSpace(value)
	algorithm, digest, found := strings.Cut(value, ":")
	if !found {
		digest = value
		algorithm = string(DetectAlgorithm(digest))
	}

	c := Checksum{Algorithm: Algorithm(strings.ToLower(algorithm)), Hex: strings.ToLower(digest)}
	switch c.Algorithm {
	case AlgorithmSHA256, AlgorithmSHA512:
	default:
		return Checksum{}, ghaerrors.NewValidationError("checksum", expectedFormat, value)
	}
	if DetectAlgorithm(c.Hex) != c.Algorithm || !isHexString(c.Hex) {
		return Checksum{}, ghaerrors.NewValidationError("checksum", expectedFormat, value)
	}
	return c, nil
}

// DetectAlgorithm detects the hash algorithm from the hash length.
func DetectAlgorithm(hashValue string) Algorithm {
	switch len(hashValue) {
	case 64: // SHA256
		return AlgorithmSHA256
	case 128: // SHA512
		return AlgorithmSHA512
	default:
		return ""
	}
}

// NewHash returns a new hash.Hash for the given algorithm.
func NewHash(algorithm Algorithm) (hash.Hash, error) {
	switch algorithm {
	case AlgorithmSHA256:
		return sha256.New(), nil
	case AlgorithmSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
}

func isHexString(s string) bool {
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		if !isDigit && !isLowerHex {
			return false
		}
	}
	return len(s) > 0
}
