package trust

import (
	"crypto/ed25519"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/clock"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// Revoke constructs and signs a Revocation for trustID. The caller is
// responsible for ensuring revokerID/revokerSigningKey matches the grant's
// grantor; verifiers enforce this independently via revoked_by.
func Revoke(trustID, revokerID string, reason RevocationReason, revokerSigningKey ed25519.PrivateKey) (*Revocation, error) {
	fields := hashedRevocationFields{
		TrustID:   trustID,
		RevokedBy: revokerID,
		Reason:    reason,
		RevokedAt: clock.NowMicros(),
	}
	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize revocation", err)
	}
	hash := codec.SHA256Hex(canonicalBytes)
	hashBytes, err := codec.HexDecode(hash)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode revocation hash", err)
	}
	sig := icrypto.Sign(revokerSigningKey, hashBytes)

	return &Revocation{
		TrustID:      fields.TrustID,
		RevokedBy:    fields.RevokedBy,
		Reason:       fields.Reason,
		RevokedAt:    fields.RevokedAt,
		SignatureB64: codec.B64Encode(sig),
	}, nil
}

// verifyRevocationSignature reports whether rev carries a valid signature
// under grantorKeyB64. A Revocation is only authoritative against a grant
// when this holds and rev.RevokedBy identifies that same grantor.
func verifyRevocationSignature(rev *Revocation, grantorKeyB64 string) (bool, error) {
	fields := hashedRevocationFields{
		TrustID:   rev.TrustID,
		RevokedBy: rev.RevokedBy,
		Reason:    rev.Reason,
		RevokedAt: rev.RevokedAt,
	}
	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize revocation", err)
	}
	hash := codec.SHA256Hex(canonicalBytes)
	hashBytes, err := codec.HexDecode(hash)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode revocation hash", err)
	}
	grantorKey, err := codec.B64Decode(grantorKeyB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid grantor key", err)
	}
	sig, err := codec.B64Decode(rev.SignatureB64)
	if err != nil {
		return false, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid revocation signature", err)
	}
	return icrypto.Verify(grantorKey, hashBytes, sig)
}

// VerifyRevocation exposes the revocation signature check for callers that
// hold a grantor's key directly rather than a grant.
func VerifyRevocation(rev *Revocation, grantorKeyB64 string) (bool, error) {
	return verifyRevocationSignature(rev, grantorKeyB64)
}
