// Package codec implements the wire-level encodings shared by every signed
// object: canonical JSON for hashing, base58 for ID suffixes, and base64/hex
// for key, signature, and hash fields.
//
// Canonicalization follows the JCS (RFC 8785) approach: marshal through the
// standard encoder once to respect field tags, decode into a generic tree
// with json.Number preserved, then re-encode recursively with sorted object
// keys, no HTML escaping, and no insignificant whitespace.
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalJSON returns the canonical JSON encoding of v: UTF-8, object keys
// sorted lexicographically by byte value, no whitespace, HTML escaping
// disabled, numbers rendered without trailing zeros. The same bytes are used
// at every hash and signature site in this module.
func CanonicalJSON(v any) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: pre-marshal: %w", err)
	}

	var generic any
	dec := json.NewDecoder(bytes.NewReader(intermediate))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("codec: intermediate decode: %w", err)
	}

	var buf bytes.Buffer
	if err := canonicalEncode(&buf, generic); err != nil {
		return nil, fmt.Errorf("codec: canonical encode: %w", err)
	}
	return buf.Bytes(), nil
}

// SHA256Hex hashes data with SHA-256 and returns the lowercase hex digest.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CanonicalSHA256Hex canonicalizes v and returns the hex SHA-256 digest of
// the canonical bytes, the primitive used for receipt_hash and grant_hash.
func CanonicalSHA256Hex(v any) (string, error) {
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return SHA256Hex(b), nil
}

func canonicalEncode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		buf.WriteString(t.String())
		return nil
	case string:
		return encodeJSONString(buf, t)
	case []any:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := canonicalEncode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := canonicalEncode(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		// Unreachable for values that round-tripped through json.Decoder
		// with UseNumber().
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return err
		}
		trimmed := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
		buf.Reset()
		buf.Write(trimmed)
		return nil
	}
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}
