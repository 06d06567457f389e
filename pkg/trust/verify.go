package trust

import (
	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/clock"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// VerifyTrustGrant checks every direct-verification facet of a grant:
// signature, time window, revocation, use count, and capability coverage.
func VerifyTrustGrant(g *TrustGrant, requestedCapability string, currentUses uint64, revocations []*Revocation) (Verification, error) {
	v := Verification{TrustChain: []string{g.ID}}

	fields := hashedGrantFields{
		Grantor:            g.Grantor,
		GrantorKeyB64:      g.GrantorKeyB64,
		Grantee:            g.Grantee,
		GranteeKeyB64:      g.GranteeKeyB64,
		Capabilities:       g.Capabilities,
		Constraints:        g.Constraints,
		DelegationAllowed:  g.DelegationAllowed,
		MaxDelegationDepth: g.MaxDelegationDepth,
		ParentGrant:        g.ParentGrant,
		DelegationDepth:    g.DelegationDepth,
		Revocation:         g.Revocation,
		GrantedAt:          g.GrantedAt,
	}
	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return v, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize grant", err)
	}
	recomputedHash := codec.SHA256Hex(canonicalBytes)

	if recomputedHash == g.GrantHash {
		hashBytes, err := codec.HexDecode(g.GrantHash)
		if err != nil {
			return v, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode grant_hash", err)
		}
		grantorKey, err := codec.B64Decode(g.GrantorKeyB64)
		if err != nil {
			return v, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid grantor_key_b64", err)
		}
		sig, err := codec.B64Decode(g.GrantorSignatureB64)
		if err != nil {
			return v, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid grantor_signature_b64", err)
		}
		ok, err := icrypto.Verify(grantorKey, hashBytes, sig)
		if err != nil {
			return v, err
		}
		v.SignatureValid = ok
	}

	nowTime := clock.NowMicros()
	v.TimeValid = nowTime >= g.Constraints.NotBefore && (g.Constraints.NotAfter == nil || nowTime <= *g.Constraints.NotAfter)

	v.NotRevoked = true
	for _, rev := range revocations {
		if rev.TrustID != g.ID || rev.RevokedBy != g.Grantor {
			continue
		}
		ok, err := verifyRevocationSignature(rev, g.GrantorKeyB64)
		if err != nil {
			continue
		}
		if ok {
			v.NotRevoked = false
			break
		}
	}

	v.UsesValid = g.Constraints.MaxUses == nil || currentUses < *g.Constraints.MaxUses
	v.CapabilityGranted = CapabilitiesCover(g.Capabilities, requestedCapability)

	v.IsValid = v.SignatureValid && v.TimeValid && v.NotRevoked && v.UsesValid && v.CapabilityGranted
	return v, nil
}

// IsGrantValid is a convenience wrapper returning only the aggregate result.
func IsGrantValid(g *TrustGrant, requestedCapability string, currentUses uint64, revocations []*Revocation) (bool, error) {
	v, err := VerifyTrustGrant(g, requestedCapability, currentUses, revocations)
	if err != nil {
		return false, err
	}
	return v.IsValid, nil
}
