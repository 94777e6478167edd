package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gogpu/shadergraph/ir"
)

// Hash computes a stable, deterministic hash of a script.
//
// The hash is the SHA-256 of the canonical encoding produced by Encode.
// Labels are part of it because they change generated identifiers.
func Hash(script *ir.Script) (string, error) {
	data, err := Encode(script)
	if err != nil {
		return "", fmt.Errorf("hash script: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
