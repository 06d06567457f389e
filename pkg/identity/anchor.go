package identity

import (
	"crypto/ed25519"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// Anchor owns an identity's signing key and the ordered history of rotations
// that brought it from the genesis key to its current one. Signing key
// material never leaves the anchor except via SigningKeyBytes, and every
// byte buffer that held it is zeroized when the anchor is destroyed.
type Anchor struct {
	id              string
	signingKey      ed25519.PrivateKey
	verifyingKey    ed25519.PublicKey
	createdAt       uint64
	name            *string
	rotationHistory []RotationRecord
	destroyed       bool
}

// New generates a fresh Ed25519 keypair and returns an anchor with an empty
// rotation history.
func New(name *string) (*Anchor, error) {
	signing, verifying, err := icrypto.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return newAnchor(signing, verifying, now(), name, nil), nil
}

// FromParts reconstructs an anchor from stored private state: the raw
// signing-key bytes (32-byte seed or 64-byte expanded key), creation time,
// optional name, and rotation history. It fails with InvalidKey if the bytes
// do not yield a valid Ed25519 key.
func FromParts(signingBytes []byte, createdAt uint64, name *string, rotationHistory []RotationRecord) (*Anchor, error) {
	var signing ed25519.PrivateKey
	var verifying ed25519.PublicKey
	switch len(signingBytes) {
	case icrypto.SeedSize:
		s, v, err := icrypto.KeypairFromSeed(signingBytes)
		if err != nil {
			return nil, err
		}
		signing, verifying = s, v
	case ed25519.PrivateKeySize:
		signing = ed25519.PrivateKey(append([]byte(nil), signingBytes...))
		verifying = signing.Public().(ed25519.PublicKey)
	default:
		return nil, aiderr.Newf(aiderr.CodeInvalidKey, "invalid signing key length", "got %d bytes", len(signingBytes))
	}

	history := append([]RotationRecord(nil), rotationHistory...)
	return newAnchor(signing, verifying, createdAt, name, history), nil
}

func newAnchor(signing ed25519.PrivateKey, verifying ed25519.PublicKey, createdAt uint64, name *string, history []RotationRecord) *Anchor {
	return &Anchor{
		id:              codec.NewID(codec.PrefixIdentity, verifying),
		signingKey:      signing,
		verifyingKey:    verifying,
		createdAt:       createdAt,
		name:            name,
		rotationHistory: history,
	}
}

// ID returns aid_<base58(sha256(verifying_key)[0:16])>.
func (a *Anchor) ID() string { return a.id }

// CreatedAt returns the anchor's creation timestamp (microseconds epoch).
func (a *Anchor) CreatedAt() uint64 { return a.createdAt }

// Name returns the anchor's optional display name.
func (a *Anchor) Name() *string { return a.name }

// RotationHistory returns a copy of the ordered rotation records.
func (a *Anchor) RotationHistory() []RotationRecord {
	return append([]RotationRecord(nil), a.rotationHistory...)
}

// VerifyingKey returns the current public key.
func (a *Anchor) VerifyingKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), a.verifyingKey...)
}

// SigningKey returns the live signing key for use by callers that need to
// sign with it directly (ReceiptBuilder.Sign, TrustGrantBuilder.Sign, …). The
// returned slice aliases the anchor's internal buffer; callers must not
// retain or zero it themselves — use Destroy on the anchor instead.
func (a *Anchor) SigningKey() ed25519.PrivateKey {
	return a.signingKey
}

// SigningKeyBytes exports a copy of the raw signing-key bytes. The caller
// takes ownership of the returned buffer and must overwrite it (crypto.Zeroize)
// once done — this is the one sanctioned way for key material to leave the
// anchor.
func (a *Anchor) SigningKeyBytes() []byte {
	return append([]byte(nil), a.signingKey...)
}

// Destroy overwrites the anchor's signing-key buffer. Call when the owning
// scope ends; the anchor must not be used afterward.
func (a *Anchor) Destroy() {
	if a.destroyed {
		return
	}
	icrypto.Zeroize(a.signingKey)
	a.destroyed = true
}
