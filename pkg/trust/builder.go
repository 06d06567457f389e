package trust

import (
	"crypto/ed25519"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/clock"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// GrantBuilder assembles a TrustGrant step by step: New, then optional
// Capability/Capabilities/Constraints/AllowDelegation/DelegatedFrom/
// RevocationChannel, then Sign.
type GrantBuilder struct {
	grantorID     string
	granteeID     string
	granteeKeyB64 string
	capabilities  []Capability
	constraints   TrustConstraints
	delegation    bool
	maxDepth      *uint32
	parentGrant   *string
	depth         uint32
	channel       RevocationChannel
}

// New starts building a grant from grantorID to granteeID, identified by its
// base64 public key.
func New(grantorID, granteeID, granteeKeyB64 string) *GrantBuilder {
	return &GrantBuilder{
		grantorID:     grantorID,
		granteeID:     granteeID,
		granteeKeyB64: granteeKeyB64,
		channel:       LocalChannel(),
		constraints:   TrustConstraints{NotBefore: clock.NowMicros()},
	}
}

// Capability adds one capability to the grant.
func (b *GrantBuilder) Capability(c Capability) *GrantBuilder {
	b.capabilities = append(b.capabilities, c)
	return b
}

// Capabilities adds multiple capabilities to the grant.
func (b *GrantBuilder) Capabilities(cs []Capability) *GrantBuilder {
	b.capabilities = append(b.capabilities, cs...)
	return b
}

// Constraints sets the grant's temporal/usage constraints, replacing any
// default NotBefore set by New.
func (b *GrantBuilder) Constraints(c TrustConstraints) *GrantBuilder {
	b.constraints = c
	return b
}

// AllowDelegation marks the grant as delegable up to maxDepth levels.
func (b *GrantBuilder) AllowDelegation(maxDepth uint32) *GrantBuilder {
	b.delegation = true
	b.maxDepth = &maxDepth
	return b
}

// DelegatedFrom marks this grant as a delegation child of parentGrantID at
// the given depth.
func (b *GrantBuilder) DelegatedFrom(parentGrantID string, depth uint32) *GrantBuilder {
	b.parentGrant = &parentGrantID
	b.depth = depth
	return b
}

// RevocationChannel sets the channel descriptor this grant's revocations are
// published to (default: Local).
func (b *GrantBuilder) RevocationChannel(channel RevocationChannel) *GrantBuilder {
	b.channel = channel
	return b
}

// Sign composes the grant's non-signature fields, computes grant_hash, and
// signs it with the grantor's key.
func (b *GrantBuilder) Sign(grantorSigningKey ed25519.PrivateKey) (*TrustGrant, error) {
	grantorKey := grantorSigningKey.Public().(ed25519.PublicKey)

	fields := hashedGrantFields{
		Grantor:            b.grantorID,
		GrantorKeyB64:      codec.B64Encode(grantorKey),
		Grantee:            b.granteeID,
		GranteeKeyB64:      b.granteeKeyB64,
		Capabilities:       b.capabilities,
		Constraints:        b.constraints,
		DelegationAllowed:  b.delegation,
		MaxDelegationDepth: b.maxDepth,
		ParentGrant:        b.parentGrant,
		DelegationDepth:    b.depth,
		Revocation:         RevocationConfig{Channel: b.channel},
		GrantedAt:          clock.NowMicros(),
	}

	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize grant", err)
	}
	grantHash := codec.SHA256Hex(canonicalBytes)
	hashBytes, err := codec.HexDecode(grantHash)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode grant hash", err)
	}

	id := codec.NewID(codec.PrefixGrant, hashBytes)
	sig := icrypto.Sign(grantorSigningKey, hashBytes)

	return &TrustGrant{
		ID:                  id,
		Grantor:             fields.Grantor,
		GrantorKeyB64:       fields.GrantorKeyB64,
		Grantee:             fields.Grantee,
		GranteeKeyB64:       fields.GranteeKeyB64,
		Capabilities:        fields.Capabilities,
		Constraints:         fields.Constraints,
		DelegationAllowed:   fields.DelegationAllowed,
		MaxDelegationDepth:  fields.MaxDelegationDepth,
		ParentGrant:         fields.ParentGrant,
		DelegationDepth:     fields.DelegationDepth,
		Revocation:          fields.Revocation,
		GrantedAt:           fields.GrantedAt,
		GrantHash:           grantHash,
		GrantorSignatureB64: codec.B64Encode(sig),
	}, nil
}

// Acknowledge appends the grantee's acknowledgment signature over the same
// grant_hash bytes the grantor signed.
func Acknowledge(g *TrustGrant, granteeSigningKey ed25519.PrivateKey) error {
	hashBytes, err := codec.HexDecode(g.GrantHash)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode grant hash", err)
	}
	sig := icrypto.Sign(granteeSigningKey, hashBytes)
	ack := codec.B64Encode(sig)
	g.GranteeAcknowledgmentB64 = &ack
	return nil
}
