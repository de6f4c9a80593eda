package idempotency

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"strings"

	"sinag/internal/constants"
)

// Hasher derives a stable key from selected submission fields.
type Hasher struct {
	algorithm string
}

func NewHasher(algorithm string) *Hasher {
	return &Hasher{algorithm: strings.ToLower(algorithm)}
}

// ComputeHash hashes fields of data in the given order. Missing fields hash
// as null. Values are JSON encoded, so map keys are ordered and equal inputs
// always produce equal keys.
func (h *Hasher) ComputeHash(data map[string]interface{}, fields []string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("no fields specified for hashing")
	}

	var hasher hash.Hash
	switch h.algorithm {
	case constants.HashAlgorithmSHA256:
		hasher = sha256.New()
	default:
		hasher = md5.New()
	}

	for _, field := range fields {
		encoded, err := json.Marshal(data[field])
		if err != nil {
			return "", fmt.Errorf("failed to encode field %s: %w", field, err)
		}
		hasher.Write([]byte(field))
		hasher.Write([]byte{'='})
		hasher.Write(encoded)
		hasher.Write([]byte{'|'})
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
