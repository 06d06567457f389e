package identity

import (
	"crypto/ed25519"
	"fmt"

	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// ScopedKey is an independent Ed25519 signing key deterministically derived
// from an anchor's root bytes plus a context string. Knowledge of a scoped
// key never reveals the root: HKDF-SHA256 is one-way.
type ScopedKey struct {
	signingKey   ed25519.PrivateKey
	verifyingKey ed25519.PublicKey
	context      string
	destroyed    bool
}

func (s *ScopedKey) SigningKey() ed25519.PrivateKey { return s.signingKey }
func (s *ScopedKey) VerifyingKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), s.verifyingKey...)
}
func (s *ScopedKey) Context() string { return s.context }

// Destroy zeroizes the scoped key's signing-key buffer.
func (s *ScopedKey) Destroy() {
	if s.destroyed {
		return
	}
	icrypto.Zeroize(s.signingKey)
	s.destroyed = true
}

// deriveScopedKey derives signing_bytes = HKDF-SHA256(ikm=root_signing_bytes,
// info=context) and expands it into a full Ed25519 keypair.
func (a *Anchor) deriveScopedKey(context string) (*ScopedKey, error) {
	seed, err := icrypto.HKDFSHA256(a.signingKey.Seed(), context)
	if err != nil {
		return nil, err
	}
	defer icrypto.Zeroize(seed)

	signing, verifying, err := icrypto.KeypairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &ScopedKey{signingKey: signing, verifyingKey: verifying, context: context}, nil
}

// DeriveSessionKey derives a key scoped to a session ID ("session:<id>").
func (a *Anchor) DeriveSessionKey(sessionID string) (*ScopedKey, error) {
	return a.deriveScopedKey(fmt.Sprintf("session:%s", sessionID))
}

// DeriveCapabilityKey derives a key scoped to a capability URI ("capability:<uri>").
func (a *Anchor) DeriveCapabilityKey(uri string) (*ScopedKey, error) {
	return a.deriveScopedKey(fmt.Sprintf("capability:%s", uri))
}

// DeriveDeviceKey derives a key scoped to a device ID ("device:<id>").
func (a *Anchor) DeriveDeviceKey(deviceID string) (*ScopedKey, error) {
	return a.deriveScopedKey(fmt.Sprintf("device:%s", deviceID))
}

// DeriveRevocationKey derives a key scoped to a trust grant ID ("revocation:<trust_id>").
func (a *Anchor) DeriveRevocationKey(trustID string) (*ScopedKey, error) {
	return a.deriveScopedKey(fmt.Sprintf("revocation:%s", trustID))
}
