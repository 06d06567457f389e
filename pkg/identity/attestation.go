package identity

import (
	"crypto/ed25519"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// NewAttestation builds and signs a third-party claim about subject's
// identity document. attesterSigningKey is the attester's own anchor signing
// key (or a scoped key derived from it).
func NewAttestation(attester, attesterKeyB64 string, claim Claim, attesterSigningKey ed25519.PrivateKey) (Attestation, error) {
	at := Attestation{
		Attester:       attester,
		AttesterKeyB64: attesterKeyB64,
		Claim:          claim,
		AttestedAt:     now(),
	}
	payload := attestationSignedPayload{
		Attester:       at.Attester,
		AttesterKeyB64: at.AttesterKeyB64,
		Claim:          at.Claim,
		AttestedAt:     at.AttestedAt,
	}
	bytes, err := codec.CanonicalJSON(payload)
	if err != nil {
		return Attestation{}, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize attestation", err)
	}
	at.SignatureB64 = codec.B64Encode(icrypto.Sign(attesterSigningKey, bytes))
	return at, nil
}

// Verify checks the attester's signature over the attestation's claim.
func (at *Attestation) Verify() (bool, error) {
	payload := attestationSignedPayload{
		Attester:       at.Attester,
		AttesterKeyB64: at.AttesterKeyB64,
		Claim:          at.Claim,
		AttestedAt:     at.AttestedAt,
	}
	bytes, err := codec.CanonicalJSON(payload)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize attestation", err)
	}
	key, err := codec.B64Decode(at.AttesterKeyB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid attester_key_b64", err)
	}
	sig, err := codec.B64Decode(at.SignatureB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid signature_b64 on attestation", err)
	}
	return icrypto.Verify(key, bytes, sig)
}
