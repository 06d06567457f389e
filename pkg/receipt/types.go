// Package receipt implements signed action receipts and their single and
// chain verification.
package receipt

// ActionType names the kind of action a receipt records. Any string outside
// the fixed variants below is a custom type and is hashed using that exact
// string, with no special wrapping — the literal value of ActionType is what
// gets canonicalized.
type ActionType string

const (
	ActionDecision          ActionType = "decision"
	ActionObservation       ActionType = "observation"
	ActionMutation          ActionType = "mutation"
	ActionDelegation        ActionType = "delegation"
	ActionRevocation        ActionType = "revocation"
	ActionIdentityOperation ActionType = "identity_operation"
)

// Action is the content of a receipt: what happened, any structured data,
// and references to related objects.
type Action struct {
	Description string   `json:"description"`
	Data        any      `json:"data,omitempty"`
	References  []string `json:"references"`
}

// WitnessSignature is an auxiliary signature by a third-party identity over
// the same receipt_hash as the primary signature. Witnesses corroborate but
// never change the primary signature's validity.
type WitnessSignature struct {
	WitnessID     string `json:"witness_id"`
	WitnessKeyB64 string `json:"witness_key_b64"`
	WitnessedAt   uint64 `json:"witnessed_at"`
	SignatureB64  string `json:"signature_b64"`
}

// ActionReceipt is a signed record that an identity took a specified action
// at a specified time, optionally chained to a previous receipt.
type ActionReceipt struct {
	ID              string             `json:"id"`
	Actor           string             `json:"actor"`
	ActorKeyB64     string             `json:"actor_key_b64"`
	ActionType      ActionType         `json:"action_type"`
	Action          Action             `json:"action"`
	Timestamp       uint64             `json:"timestamp"`
	ContextHash     *string            `json:"context_hash,omitempty"`
	PreviousReceipt *string            `json:"previous_receipt,omitempty"`
	ReceiptHash     string             `json:"receipt_hash"`
	SignatureB64    string             `json:"signature_b64"`
	Witnesses       []WitnessSignature `json:"witnesses,omitempty"`
}

// hashedFields is exactly the payload receipt_hash covers:
// {actor, actor_key, action_type, action, timestamp, context_hash, previous_receipt}.
type hashedFields struct {
	Actor           string     `json:"actor"`
	ActorKeyB64     string     `json:"actor_key"`
	ActionType      ActionType `json:"action_type"`
	Action          Action     `json:"action"`
	Timestamp       uint64     `json:"timestamp"`
	ContextHash     *string    `json:"context_hash,omitempty"`
	PreviousReceipt *string    `json:"previous_receipt,omitempty"`
}

// Verification is the result of verifying a single receipt. It never flows
// through the error channel — malformed input does that; "invalid but
// well-formed" does not.
type Verification struct {
	SignatureValid bool
	WitnessesValid []bool
	ChainValid     *bool
	IsValid        bool
	VerifiedAt     uint64
}
