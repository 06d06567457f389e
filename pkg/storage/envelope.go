// Package storage implements the on-disk `.aid` identity envelope and the
// per-object JSON file layout for receipts, grants, and revocations. All
// writes are atomic (temp file + rename).
package storage

import (
	"bytes"
	"encoding/json"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/identity"
)

const (
	envelopeVersion = 1
	envelopeFormat  = "aid-v1"
)

// encryptionParams describes the AEAD + KDF combination and the random
// values used for one envelope.
type encryptionParams struct {
	Algorithm string `json:"algorithm"`
	KDF       string `json:"kdf"`
	SaltB64   string `json:"salt"`
	NonceB64  string `json:"nonce"`
}

// envelope is the exact on-disk shape of a `.aid` file.
type envelope struct {
	Version         int                `json:"version"`
	Format          string             `json:"format"`
	Encryption      encryptionParams   `json:"encryption"`
	EncryptedAnchor string             `json:"encrypted_anchor"`
	PublicDocument  *identity.Document `json:"public_document"`
}

// privateState is the plaintext sealed inside encrypted_anchor.
type privateState struct {
	SigningKeyB64   string                    `json:"signing_key_b64"`
	CreatedAt       uint64                    `json:"created_at"`
	Name            *string                   `json:"name,omitempty"`
	RotationHistory []identity.RotationRecord `json:"rotation_history"`
}

// decodeEnvelope parses raw bytes into an envelope, rejecting unknown fields
// and any version/format mismatch.
func decodeEnvelope(raw []byte) (*envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeInvalidFileFormat, "malformed .aid envelope", err)
	}
	if env.Version != envelopeVersion {
		return nil, aiderr.Newf(aiderr.CodeInvalidFileFormat, "unsupported envelope version", "got %d", env.Version)
	}
	if env.Format != envelopeFormat {
		return nil, aiderr.Newf(aiderr.CodeInvalidFileFormat, "unsupported envelope format", "got %q", env.Format)
	}
	if env.PublicDocument == nil {
		return nil, aiderr.New(aiderr.CodeInvalidFileFormat, "envelope is missing public_document")
	}
	return &env, nil
}
