package trust_test

import (
	"testing"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	"github.com/agentic-identity/core/pkg/identity"
	"github.com/agentic-identity/core/pkg/trust"
	"github.com/stretchr/testify/require"
)

func TestGrantVerifiesAndCoversCapability(t *testing.T) {
	grantor, err := identity.New(nil)
	require.NoError(t, err)
	defer grantor.Destroy()
	grantee, err := identity.New(nil)
	require.NoError(t, err)
	defer grantee.Destroy()

	g, err := trust.New(grantor.ID(), grantee.ID(), codec.B64Encode(grantee.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:read:*"}).
		Sign(grantor.SigningKey())
	require.NoError(t, err)

	v, err := trust.VerifyTrustGrant(g, "fs:read:reports", 0, nil)
	require.NoError(t, err)
	require.True(t, v.IsValid)

	v, err = trust.VerifyTrustGrant(g, "fs:write:reports", 0, nil)
	require.NoError(t, err)
	require.False(t, v.CapabilityGranted)
	require.False(t, v.IsValid)
}

func TestGrantRespectsMaxUsesAndExpiry(t *testing.T) {
	grantor, err := identity.New(nil)
	require.NoError(t, err)
	defer grantor.Destroy()
	grantee, err := identity.New(nil)
	require.NoError(t, err)
	defer grantee.Destroy()

	maxUses := uint64(3)
	notAfter := uint64(1)
	g, err := trust.New(grantor.ID(), grantee.ID(), codec.B64Encode(grantee.VerifyingKey())).
		Capability(trust.Capability{URI: "api:*"}).
		Constraints(trust.TrustConstraints{NotBefore: 0, NotAfter: &notAfter, MaxUses: &maxUses}).
		Sign(grantor.SigningKey())
	require.NoError(t, err)

	v, err := trust.VerifyTrustGrant(g, "api:call", 5, nil)
	require.NoError(t, err)
	require.False(t, v.UsesValid)
	require.False(t, v.TimeValid)
	require.False(t, v.IsValid)
}

func TestRevokedGrantFailsVerification(t *testing.T) {
	grantor, err := identity.New(nil)
	require.NoError(t, err)
	defer grantor.Destroy()
	grantee, err := identity.New(nil)
	require.NoError(t, err)
	defer grantee.Destroy()

	g, err := trust.New(grantor.ID(), grantee.ID(), codec.B64Encode(grantee.VerifyingKey())).
		Capability(trust.Capability{URI: "api:*"}).
		Sign(grantor.SigningKey())
	require.NoError(t, err)

	v, err := trust.VerifyTrustGrant(g, "api:call", 0, nil)
	require.NoError(t, err)
	require.True(t, v.IsValid)

	rev, err := trust.Revoke(g.ID, grantor.ID(), trust.ReasonManualRevocation, grantor.SigningKey())
	require.NoError(t, err)

	v, err = trust.VerifyTrustGrant(g, "api:call", 0, []*trust.Revocation{rev})
	require.NoError(t, err)
	require.False(t, v.NotRevoked)
	require.False(t, v.IsValid)
}

func TestDelegationChainNarrowingAndRevocationCascade(t *testing.T) {
	root, err := identity.New(nil)
	require.NoError(t, err)
	defer root.Destroy()
	mid, err := identity.New(nil)
	require.NoError(t, err)
	defer mid.Destroy()
	leaf, err := identity.New(nil)
	require.NoError(t, err)
	defer leaf.Destroy()

	rootGrant, err := trust.New(root.ID(), mid.ID(), codec.B64Encode(mid.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:*"}).
		AllowDelegation(2).
		Sign(root.SigningKey())
	require.NoError(t, err)

	midGrant, err := trust.New(mid.ID(), leaf.ID(), codec.B64Encode(leaf.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:read:*"}).
		AllowDelegation(1).
		DelegatedFrom(rootGrant.ID, 1).
		Sign(mid.SigningKey())
	require.NoError(t, err)

	require.NoError(t, trust.ValidateDelegation(rootGrant, []string{"fs:read:*"}))

	chain := []*trust.TrustGrant{rootGrant, midGrant}
	cv, err := trust.VerifyTrustChain(chain, "fs:read:reports", nil)
	require.NoError(t, err)
	require.True(t, cv.IsValid)

	ok, err := trust.ChainIsValid(cv)
	require.NoError(t, err)
	require.True(t, ok)

	// Revoking the root grant must invalidate the whole chain.
	rootRevocation, err := trust.Revoke(rootGrant.ID, root.ID(), trust.ReasonKeyCompromise, root.SigningKey())
	require.NoError(t, err)
	revocations := map[string][]*trust.Revocation{rootGrant.ID: {rootRevocation}}

	cv, err = trust.VerifyTrustChain(chain, "fs:read:reports", revocations)
	require.NoError(t, err)
	require.False(t, cv.IsValid)
	_, err = trust.ChainIsValid(cv)
	require.Error(t, err)
}

func TestChainAggregatesMostRestrictiveConstraints(t *testing.T) {
	root, err := identity.New(nil)
	require.NoError(t, err)
	defer root.Destroy()
	mid, err := identity.New(nil)
	require.NoError(t, err)
	defer mid.Destroy()
	leaf, err := identity.New(nil)
	require.NoError(t, err)
	defer leaf.Destroy()

	rootUses := uint64(10)
	rootNotAfter := uint64(9_000_000_000_000_000)
	rootGrant, err := trust.New(root.ID(), mid.ID(), codec.B64Encode(mid.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:*"}).
		Constraints(trust.TrustConstraints{NotBefore: 0, NotAfter: &rootNotAfter, MaxUses: &rootUses}).
		AllowDelegation(2).
		Sign(root.SigningKey())
	require.NoError(t, err)

	midUses := uint64(3)
	midNotAfter := uint64(8_000_000_000_000_000)
	midGrant, err := trust.New(mid.ID(), leaf.ID(), codec.B64Encode(leaf.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:read:*"}).
		Constraints(trust.TrustConstraints{NotBefore: 0, NotAfter: &midNotAfter, MaxUses: &midUses}).
		DelegatedFrom(rootGrant.ID, 1).
		Sign(mid.SigningKey())
	require.NoError(t, err)

	cv, err := trust.VerifyTrustChain([]*trust.TrustGrant{rootGrant, midGrant}, "fs:read:reports", nil)
	require.NoError(t, err)
	require.True(t, cv.IsValid)

	// Most-restrictive wins: the effective bounds are the minima across the
	// chain. Enforcing per-grant usage counts against EffectiveMaxUses is
	// the caller's job; the chain result only reports the bound.
	require.NotNil(t, cv.EffectiveMaxUses)
	require.Equal(t, midUses, *cv.EffectiveMaxUses)
	require.NotNil(t, cv.EffectiveNotAfter)
	require.Equal(t, midNotAfter, *cv.EffectiveNotAfter)
}

func TestAcknowledgeAppendsGranteeSignature(t *testing.T) {
	grantor, err := identity.New(nil)
	require.NoError(t, err)
	defer grantor.Destroy()
	grantee, err := identity.New(nil)
	require.NoError(t, err)
	defer grantee.Destroy()

	g, err := trust.New(grantor.ID(), grantee.ID(), codec.B64Encode(grantee.VerifyingKey())).
		Capability(trust.Capability{URI: "read:calendar"}).
		Sign(grantor.SigningKey())
	require.NoError(t, err)
	require.Nil(t, g.GranteeAcknowledgmentB64)

	require.NoError(t, trust.Acknowledge(g, grantee.SigningKey()))
	require.NotNil(t, g.GranteeAcknowledgmentB64)

	// The acknowledgment covers the same grant_hash bytes and does not
	// disturb the grantor's signature.
	v, err := trust.VerifyTrustGrant(g, "read:calendar", 0, nil)
	require.NoError(t, err)
	require.True(t, v.IsValid)
}

func TestDelegationRejectsCapabilityWidening(t *testing.T) {
	root, err := identity.New(nil)
	require.NoError(t, err)
	defer root.Destroy()
	mid, err := identity.New(nil)
	require.NoError(t, err)
	defer mid.Destroy()

	rootGrant, err := trust.New(root.ID(), mid.ID(), codec.B64Encode(mid.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:read:*"}).
		AllowDelegation(2).
		Sign(root.SigningKey())
	require.NoError(t, err)

	err = trust.ValidateDelegation(rootGrant, []string{"fs:*"})
	require.Error(t, err)
	code, ok := aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeTrustNotGranted, code)

	// Delegation disabled entirely.
	flat, err := trust.New(root.ID(), mid.ID(), codec.B64Encode(mid.VerifyingKey())).
		Capability(trust.Capability{URI: "fs:read:*"}).
		Sign(root.SigningKey())
	require.NoError(t, err)
	err = trust.ValidateDelegation(flat, []string{"fs:read:a"})
	code, ok = aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeDelegationNotAllowed, code)
}
