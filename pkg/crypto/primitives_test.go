package crypto_test

import (
	"testing"

	"github.com/agentic-identity/core/pkg/crypto"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signing, verifying, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("hello agentic identity")
	sig := crypto.Sign(signing, msg)

	ok, err := crypto.Verify(verifying, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = crypto.Verify(verifying, []byte("tampered"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHKDFDeterministicAndContextSeparated(t *testing.T) {
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = byte(i)
	}

	a1, err := crypto.HKDFSHA256(ikm, "session:abc")
	require.NoError(t, err)
	a2, err := crypto.HKDFSHA256(ikm, "session:abc")
	require.NoError(t, err)
	require.Equal(t, a1, a2)

	b, err := crypto.HKDFSHA256(ikm, "session:xyz")
	require.NoError(t, err)
	require.NotEqual(t, a1, b)
}

func TestAEADRoundTripAndTagMismatch(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)
	nonce, err := crypto.RandomBytes(crypto.AEADNonceLen)
	require.NoError(t, err)

	pt := []byte("secret anchor bytes")
	ct, err := crypto.AEADEncrypt(key, nonce, pt)
	require.NoError(t, err)

	got, err := crypto.AEADDecrypt(key, nonce, ct)
	require.NoError(t, err)
	require.Equal(t, pt, got)

	ct[0] ^= 0xFF
	_, err = crypto.AEADDecrypt(key, nonce, ct)
	require.Error(t, err)
}

func TestArgon2idDeterministic(t *testing.T) {
	salt, err := crypto.RandomBytes(crypto.Argon2SaltLen)
	require.NoError(t, err)
	params := crypto.DefaultArgon2idParams()

	k1, err := crypto.Argon2idDerive([]byte("pw"), salt, params)
	require.NoError(t, err)
	k2, err := crypto.Argon2idDerive([]byte("pw"), salt, params)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	k3, err := crypto.Argon2idDerive([]byte("different"), salt, params)
	require.NoError(t, err)
	require.NotEqual(t, k1, k3)
}
