package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSuite separates suite report fingerprints from any other hash.
const DomainSuite = "tokencheck/suite/v1"

// Fingerprint hashes the canonical form of v.
// Format: SHA256(domain + 0x00 + canonical JSON), hex encoded.
func Fingerprint(domain string, v any) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
