package identity

import (
	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

const AlgorithmEd25519 = "ed25519"

// ToDocument emits the public document and self-signs the minimal identity
// tuple {id, public_key, algorithm, created_at, name} under the current
// public key.
func (a *Anchor) ToDocument() (*Document, error) {
	tuple := minimalTuple{
		ID:           a.id,
		PublicKeyB64: codec.B64Encode(a.verifyingKey),
		Algorithm:    AlgorithmEd25519,
		CreatedAt:    a.createdAt,
		Name:         a.name,
	}
	bytes, err := codec.CanonicalJSON(tuple)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize identity document", err)
	}
	sig := icrypto.Sign(a.signingKey, bytes)

	return &Document{
		ID:              tuple.ID,
		PublicKeyB64:    tuple.PublicKeyB64,
		Algorithm:       tuple.Algorithm,
		CreatedAt:       tuple.CreatedAt,
		Name:            tuple.Name,
		RotationHistory: a.RotationHistory(),
		Attestations:    nil,
		SignatureB64:    codec.B64Encode(sig),
	}, nil
}

// VerifySignature checks the document's self-signature under its own
// public_key over the recomputed minimal identity tuple.
func VerifySignature(doc *Document) (bool, error) {
	tuple := minimalTuple{
		ID:           doc.ID,
		PublicKeyB64: doc.PublicKeyB64,
		Algorithm:    doc.Algorithm,
		CreatedAt:    doc.CreatedAt,
		Name:         doc.Name,
	}
	bytes, err := codec.CanonicalJSON(tuple)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize identity document", err)
	}
	pubKey, err := codec.B64Decode(doc.PublicKeyB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid public_key_b64 in document", err)
	}
	sig, err := codec.B64Decode(doc.SignatureB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid signature_b64 in document", err)
	}
	return icrypto.Verify(pubKey, bytes, sig)
}

// (*Document).VerifySignature is a convenience wrapper for a.ToDocument() callers
// who already hold a Document value.
func (d *Document) VerifySignature() (bool, error) {
	return VerifySignature(d)
}
