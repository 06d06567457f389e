// Package identity implements identity anchors: key generation, scoped-key
// derivation, rotation with an authorization chain, and public-document
// issuance/verification.
package identity

import "github.com/agentic-identity/core/pkg/clock"

// RotationReason enumerates why a key was rotated.
type RotationReason string

const (
	ReasonScheduled      RotationReason = "scheduled"
	ReasonCompromised    RotationReason = "compromised"
	ReasonDeviceLost     RotationReason = "device_lost"
	ReasonPolicyRequired RotationReason = "policy_required"
	ReasonManual         RotationReason = "manual"
)

// RotationRecord authorizes a transition from one root key to the next. The
// authorization signature is produced by the previous key over
// canonical(previous_key || new_key || rotated_at || reason).
type RotationRecord struct {
	PreviousKeyB64            string         `json:"previous_key_b64"`
	NewKeyB64                 string         `json:"new_key_b64"`
	RotatedAt                 uint64         `json:"rotated_at"`
	Reason                    RotationReason `json:"reason"`
	AuthorizationSignatureB64 string         `json:"authorization_signature_b64"`
}

// rotationAuthPayload is the struct hashed/signed to authorize a rotation:
// previous_key || new_key || rotated_at || reason, in that order.
type rotationAuthPayload struct {
	PreviousKeyB64 string         `json:"previous_key_b64"`
	NewKeyB64      string         `json:"new_key_b64"`
	RotatedAt      uint64         `json:"rotated_at"`
	Reason         RotationReason `json:"reason"`
}

// Attestation is a third-party claim about an identity.
type Attestation struct {
	Attester       string `json:"attester"`
	AttesterKeyB64 string `json:"attester_key_b64"`
	Claim          Claim  `json:"claim"`
	AttestedAt     uint64 `json:"attested_at"`
	SignatureB64   string `json:"signature_b64"`
}

// ClaimKind names the four claim shapes the glossary allows.
type ClaimKind string

const (
	ClaimKeyOwnership           ClaimKind = "key_ownership"
	ClaimNameVerification       ClaimKind = "name_verification"
	ClaimOrganizationMembership ClaimKind = "organization_membership"
	ClaimCustom                 ClaimKind = "custom"
)

// Claim is a tagged union over the attestation claim shapes. Name and Org are
// populated for NameVerification/OrganizationMembership respectively; Type
// and Value are populated for Custom.
type Claim struct {
	Kind  ClaimKind `json:"kind"`
	Name  string    `json:"name,omitempty"`
	Org   string    `json:"org,omitempty"`
	Type  string    `json:"type,omitempty"`
	Value string    `json:"value,omitempty"`
}

// attestationSignedPayload is the canonical payload an attester signs.
type attestationSignedPayload struct {
	Attester       string `json:"attester"`
	AttesterKeyB64 string `json:"attester_key_b64"`
	Claim          Claim  `json:"claim"`
	AttestedAt     uint64 `json:"attested_at"`
}

// Document is the public, shareable identity document.
type Document struct {
	ID              string           `json:"id"`
	PublicKeyB64    string           `json:"public_key_b64"`
	Algorithm       string           `json:"algorithm"`
	CreatedAt       uint64           `json:"created_at"`
	Name            *string          `json:"name,omitempty"`
	RotationHistory []RotationRecord `json:"rotation_history"`
	Attestations    []Attestation    `json:"attestations"`
	SignatureB64    string           `json:"signature_b64"`
}

// minimalTuple is the exact payload the self-signature covers:
// {id, public_key, algorithm, created_at, name}. Rotation history and
// attestations are appended to a Document after issuance (by Rotate and by
// third-party attesters respectively) without invalidating the self-signature,
// which is why they sit outside the signed tuple.
type minimalTuple struct {
	ID           string  `json:"id"`
	PublicKeyB64 string  `json:"public_key_b64"`
	Algorithm    string  `json:"algorithm"`
	CreatedAt    uint64  `json:"created_at"`
	Name         *string `json:"name,omitempty"`
}

// now returns microseconds since the Unix epoch, routed through a package
// variable so tests can freeze time deterministically.
var now = clock.NowMicros
