// Package crypto wraps the primitive operations the rest of the module signs
// and encrypts with: Ed25519 for signatures, HKDF-SHA256 for deterministic
// key derivation, Argon2id for passphrase stretching, and ChaCha20-Poly1305
// for authenticated encryption of the on-disk anchor body.
//
// The signing surface is a thin wrapper around crypto/ed25519 rather than a
// reimplementation of the curve.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/agentic-identity/core/pkg/aiderr"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	SeedSize      = ed25519.SeedSize           // 32
	PublicKeySize = ed25519.PublicKeySize      // 32
	SignatureSize = ed25519.SignatureSize      // 64
	Argon2SaltLen = 16
	AEADNonceLen  = chacha20poly1305.NonceSize // 12
)

// GenerateKeypair returns a fresh Ed25519 signing key and its verifying key,
// drawing entropy from the OS CSPRNG.
func GenerateKeypair() (signing ed25519.PrivateKey, verifying ed25519.PublicKey, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, aiderr.Wrap(aiderr.CodeInvalidKey, "keypair generation failed", err)
	}
	return priv, pub, nil
}

// KeypairFromSeed reconstructs a signing/verifying pair from a 32-byte seed,
// the representation stored on disk and passed through HKDF derivation.
func KeypairFromSeed(seed []byte) (signing ed25519.PrivateKey, verifying ed25519.PublicKey, err error) {
	if len(seed) != SeedSize {
		return nil, nil, aiderr.Newf(aiderr.CodeInvalidKey, "invalid seed length", "got %d bytes, want %d", len(seed), SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, priv.Public().(ed25519.PublicKey), nil
}

// Sign produces a 64-byte Ed25519 signature over msg.
func Sign(signing ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(signing, msg)
}

// Verify reports whether sig is a valid Ed25519 signature over msg under
// verifying. It returns an error (rather than merely false) only when the
// inputs are structurally invalid (wrong key size); an invalid signature
// over well-formed inputs returns (false, nil).
func Verify(verifying ed25519.PublicKey, msg, sig []byte) (bool, error) {
	if len(verifying) != PublicKeySize {
		return false, aiderr.Newf(aiderr.CodeInvalidKey, "invalid verifying key size", "got %d bytes, want %d", len(verifying), PublicKeySize)
	}
	return ed25519.Verify(verifying, msg, sig), nil
}

// HKDFSHA256 derives 32 bytes of key material from ikm using info as the
// HKDF context string. Deterministic: identical (ikm, info) always yields
// identical output; distinct info strings yield independent output.
func HKDFSHA256(ikm []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, nil, []byte(info))
	out := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeDerivationFailed, "HKDF-SHA256 derivation failed", err)
	}
	return out, nil
}

// Argon2idParams bounds the cost of passphrase stretching. Callers cap these
// at construction time; there is no per-call override.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2idParams is the m=65536 KiB, t=3, p=4 profile used by the
// identity file format.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{MemoryKiB: 65536, Iterations: 3, Parallelism: 4}
}

// Argon2idDerive stretches passphrase with salt into a 32-byte key.
func Argon2idDerive(passphrase []byte, salt []byte, params Argon2idParams) ([]byte, error) {
	if len(salt) != Argon2SaltLen {
		return nil, aiderr.Newf(aiderr.CodeInvalidKey, "invalid argon2 salt length", "got %d bytes, want %d", len(salt), Argon2SaltLen)
	}
	return argon2.IDKey(passphrase, salt, params.Iterations, params.MemoryKiB, params.Parallelism, 32), nil
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to read random bytes", err)
	}
	return b, nil
}

// AEADEncrypt seals plaintext under key/nonce with ChaCha20-Poly1305,
// returning ciphertext||tag.
func AEADEncrypt(key, nonce, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeEncryptionFailed, "failed to construct AEAD cipher", err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, aiderr.Newf(aiderr.CodeEncryptionFailed, "invalid nonce length", "got %d bytes, want %d", len(nonce), aead.NonceSize())
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// AEADDecrypt opens ciphertext||tag under key/nonce. A tag mismatch is
// reported via the returned error's Code, which callers map to
// InvalidPassphrase or DecryptionFailed depending on context.
func AEADDecrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeDecryptionFailed, "failed to construct AEAD cipher", err)
	}
	pt, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeDecryptionFailed, "AEAD tag verification failed", err)
	}
	return pt, nil
}

// Zeroize overwrites b in place. Call on every exit path — including error
// exits — for any buffer that held signing-key bytes, derived keys, or
// decrypted plaintext.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
