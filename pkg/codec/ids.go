package codec

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// ID prefixes for the four object kinds in the data model.
const (
	PrefixIdentity   = "aid"
	PrefixReceipt    = "arec"
	PrefixGrant      = "atrust"
	PrefixRevocation = "arev"
)

// NewID hashes content with SHA-256, takes the leading 16 bytes (128 bits of
// collision resistance), base58-encodes them, and prefixes the result with
// the object kind — e.g. "aid_7fQ3k9...".
func NewID(prefix string, content []byte) string {
	sum := sha256.Sum256(content)
	return prefix + "_" + base58.Encode(sum[:16])
}

// B64Encode / B64Decode wrap standard (non-URL) base64 for key, signature,
// and ciphertext fields, matching the field names in the data model
// (`*_b64`).
func B64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func B64Decode(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// HexEncode / HexDecode are used for receipt_hash / grant_hash fields.
func HexEncode(b []byte) string { return hex.EncodeToString(b) }

func HexDecode(s string) ([]byte, error) { return hex.DecodeString(s) }
