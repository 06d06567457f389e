package identity

import (
	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// Rotate generates a fresh keypair, authorizes the transition with a
// signature from the current root key, appends the rotation record to
// history, and returns a new anchor whose signing key is the new one. The
// old anchor's secret material is zeroized; the returned anchor's ID changes
// because IDs are derived from the public key.
func (a *Anchor) Rotate(reason RotationReason) (*Anchor, error) {
	newSigning, newVerifying, err := icrypto.GenerateKeypair()
	if err != nil {
		return nil, err
	}

	rotatedAt := now()
	payload := rotationAuthPayload{
		PreviousKeyB64: codec.B64Encode(a.verifyingKey),
		NewKeyB64:      codec.B64Encode(newVerifying),
		RotatedAt:      rotatedAt,
		Reason:         reason,
	}
	bytes, err := codec.CanonicalJSON(payload)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize rotation authorization", err)
	}

	authSig := icrypto.Sign(a.signingKey, bytes)

	record := RotationRecord{
		PreviousKeyB64:            payload.PreviousKeyB64,
		NewKeyB64:                 payload.NewKeyB64,
		RotatedAt:                 rotatedAt,
		Reason:                    reason,
		AuthorizationSignatureB64: codec.B64Encode(authSig),
	}

	history := append(append([]RotationRecord(nil), a.rotationHistory...), record)
	next := newAnchor(newSigning, newVerifying, a.createdAt, a.name, history)

	a.Destroy()
	return next, nil
}

// VerifyRotationHistory checks the chain invariants: for history
// [r1..rn], r1.previous_key is the genesis key, r(i).new_key = r(i+1).previous_key,
// and each authorization_signature verifies under its previous_key.
func VerifyRotationHistory(genesisKeyB64 string, history []RotationRecord) (bool, error) {
	if len(history) == 0 {
		return true, nil
	}
	if history[0].PreviousKeyB64 != genesisKeyB64 {
		return false, nil
	}
	for i, r := range history {
		if i > 0 && history[i-1].NewKeyB64 != r.PreviousKeyB64 {
			return false, nil
		}
		prevKey, err := codec.B64Decode(r.PreviousKeyB64)
		if err != nil {
			return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid previous_key_b64 in rotation history", err)
		}
		sig, err := codec.B64Decode(r.AuthorizationSignatureB64)
		if err != nil {
			return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid authorization_signature_b64 in rotation history", err)
		}
		payload := rotationAuthPayload{
			PreviousKeyB64: r.PreviousKeyB64,
			NewKeyB64:      r.NewKeyB64,
			RotatedAt:      r.RotatedAt,
			Reason:         r.Reason,
		}
		bytes, err := codec.CanonicalJSON(payload)
		if err != nil {
			return false, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize rotation authorization", err)
		}
		ok, err := icrypto.Verify(prevKey, bytes, sig)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
