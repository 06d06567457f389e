package storage

import (
	"encoding/json"
	"os"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
	"github.com/agentic-identity/core/pkg/identity"
)

const hkdfEncryptionInfo = "identity-encryption"

// SaveIdentity encrypts a's private state under passphrase and atomically
// writes the `.aid` envelope to path.
func SaveIdentity(a *identity.Anchor, path, passphrase string) error {
	salt, err := icrypto.RandomBytes(icrypto.Argon2SaltLen)
	if err != nil {
		return err
	}
	nonce, err := icrypto.RandomBytes(icrypto.AEADNonceLen)
	if err != nil {
		return err
	}

	masterKey, err := icrypto.Argon2idDerive([]byte(passphrase), salt, icrypto.DefaultArgon2idParams())
	if err != nil {
		return err
	}
	encryptionKey, err := icrypto.HKDFSHA256(masterKey, hkdfEncryptionInfo)
	icrypto.Zeroize(masterKey)
	if err != nil {
		return err
	}
	defer icrypto.Zeroize(encryptionKey)

	signingBytes := a.SigningKeyBytes()
	defer icrypto.Zeroize(signingBytes)

	state := privateState{
		SigningKeyB64:   codec.B64Encode(signingBytes),
		CreatedAt:       a.CreatedAt(),
		Name:            a.Name(),
		RotationHistory: a.RotationHistory(),
	}
	plaintext, err := json.Marshal(state)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to serialize private state", err)
	}
	defer icrypto.Zeroize(plaintext)

	ciphertext, err := icrypto.AEADEncrypt(encryptionKey, nonce, plaintext)
	if err != nil {
		return err
	}

	doc, err := a.ToDocument()
	if err != nil {
		return err
	}

	env := envelope{
		Version: envelopeVersion,
		Format:  envelopeFormat,
		Encryption: encryptionParams{
			Algorithm: "chacha20-poly1305",
			KDF:       "argon2id",
			SaltB64:   codec.B64Encode(salt),
			NonceB64:  codec.B64Encode(nonce),
		},
		EncryptedAnchor: codec.B64Encode(ciphertext),
		PublicDocument:  doc,
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to serialize envelope", err)
	}
	return atomicWriteFile(path, raw)
}

// LoadIdentity decrypts and reconstructs an anchor from a `.aid` envelope.
// A wrong passphrase surfaces as InvalidPassphrase (the AEAD tag never
// verifies under the wrong key); any other decryption fault is
// DecryptionFailed.
func LoadIdentity(path, passphrase string) (*identity.Anchor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to read identity file", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	salt, err := codec.B64Decode(env.Encryption.SaltB64)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeInvalidFileFormat, "invalid salt encoding", err)
	}
	nonce, err := codec.B64Decode(env.Encryption.NonceB64)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeInvalidFileFormat, "invalid nonce encoding", err)
	}
	ciphertext, err := codec.B64Decode(env.EncryptedAnchor)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeInvalidFileFormat, "invalid encrypted_anchor encoding", err)
	}

	masterKey, err := icrypto.Argon2idDerive([]byte(passphrase), salt, icrypto.DefaultArgon2idParams())
	if err != nil {
		return nil, err
	}
	encryptionKey, err := icrypto.HKDFSHA256(masterKey, hkdfEncryptionInfo)
	icrypto.Zeroize(masterKey)
	if err != nil {
		return nil, err
	}
	defer icrypto.Zeroize(encryptionKey)

	if len(nonce) != icrypto.AEADNonceLen {
		return nil, aiderr.Newf(aiderr.CodeDecryptionFailed, "invalid nonce length", "got %d bytes, want %d", len(nonce), icrypto.AEADNonceLen)
	}
	plaintext, err := icrypto.AEADDecrypt(encryptionKey, nonce, ciphertext)
	if err != nil {
		if code, ok := aiderr.CodeOf(err); ok && code == aiderr.CodeDecryptionFailed {
			return nil, aiderr.New(aiderr.CodeInvalidPassphrase, "wrong passphrase or corrupted identity file")
		}
		return nil, err
	}
	defer icrypto.Zeroize(plaintext)

	var state privateState
	if err := json.Unmarshal(plaintext, &state); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to deserialize private state", err)
	}

	signingBytes, err := codec.B64Decode(state.SigningKeyB64)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid signing_key_b64 in private state", err)
	}
	defer icrypto.Zeroize(signingBytes)

	a, err := identity.FromParts(signingBytes, state.CreatedAt, state.Name, state.RotationHistory)
	if err != nil {
		return nil, err
	}

	doc, err := a.ToDocument()
	if err != nil {
		a.Destroy()
		return nil, err
	}
	ok, err := doc.VerifySignature()
	if err != nil {
		a.Destroy()
		return nil, err
	}
	if !ok || doc.ID != env.PublicDocument.ID {
		a.Destroy()
		return nil, aiderr.New(aiderr.CodeInvalidFileFormat, "public document does not match decrypted signing key")
	}

	return a, nil
}

// ReadPublicDocument returns the envelope's public_document without touching
// the ciphertext, so it never requires a passphrase.
func ReadPublicDocument(path string) (*identity.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to read identity file", err)
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return env.PublicDocument, nil
}
