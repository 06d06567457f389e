package receipt

import (
	"crypto/ed25519"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/clock"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// pendingWitness defers signing until the receipt_hash is known.
type pendingWitness struct {
	witnessID  string
	signingKey ed25519.PrivateKey
}

// Builder assembles an ActionReceipt step by step: New, then optional
// ContextHash / ChainTo / AddWitness, then Sign.
type Builder struct {
	actorID     string
	actionType  ActionType
	action      Action
	contextHash *string
	previous    *string
	witnesses   []pendingWitness
}

// New starts building a receipt for actorID taking actionType with the given
// action content.
func New(actorID string, actionType ActionType, action Action) *Builder {
	return &Builder{actorID: actorID, actionType: actionType, action: action}
}

// ContextHash attaches an optional context hash to the receipt.
func (b *Builder) ContextHash(h string) *Builder {
	b.contextHash = &h
	return b
}

// ChainTo links this receipt to a previous receipt's ID.
func (b *Builder) ChainTo(previousReceiptID string) *Builder {
	b.previous = &previousReceiptID
	return b
}

// AddWitness registers a witness that will sign the same receipt_hash the
// primary signer signs, once Sign computes it.
func (b *Builder) AddWitness(witnessID string, witnessSigningKey ed25519.PrivateKey) *Builder {
	b.witnesses = append(b.witnesses, pendingWitness{witnessID: witnessID, signingKey: witnessSigningKey})
	return b
}

// Sign executes the signing algorithm:
//  1. canonicalize {actor, actor_key, action_type, action, timestamp, context_hash, previous_receipt}
//  2. receipt_hash = hex(SHA-256(bytes))
//  3. id = arec_<base58(sha256(hex_bytes(receipt_hash))[0:16])>
//  4. signature = base64(Ed25519(actor_signing_key, hex_bytes(receipt_hash)))
//  5. each witness signs the same hex_bytes(receipt_hash) independently
func (b *Builder) Sign(actorSigningKey ed25519.PrivateKey) (*ActionReceipt, error) {
	actorKey := actorSigningKey.Public().(ed25519.PublicKey)

	fields := hashedFields{
		Actor:           b.actorID,
		ActorKeyB64:     codec.B64Encode(actorKey),
		ActionType:      b.actionType,
		Action:          b.action,
		Timestamp:       clock.NowMicros(),
		ContextHash:     b.contextHash,
		PreviousReceipt: b.previous,
	}

	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize receipt", err)
	}

	receiptHash := codec.SHA256Hex(canonicalBytes)
	hashBytes, err := codec.HexDecode(receiptHash)
	if err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode receipt hash", err)
	}

	id := codec.NewID(codec.PrefixReceipt, hashBytes)
	sig := icrypto.Sign(actorSigningKey, hashBytes)

	witnesses := make([]WitnessSignature, 0, len(b.witnesses))
	for _, w := range b.witnesses {
		witnessedAt := clock.NowMicros()
		wSig := icrypto.Sign(w.signingKey, hashBytes)
		witnesses = append(witnesses, WitnessSignature{
			WitnessID:     w.witnessID,
			WitnessKeyB64: codec.B64Encode(w.signingKey.Public().(ed25519.PublicKey)),
			WitnessedAt:   witnessedAt,
			SignatureB64:  codec.B64Encode(wSig),
		})
	}

	return &ActionReceipt{
		ID:              id,
		Actor:           fields.Actor,
		ActorKeyB64:     fields.ActorKeyB64,
		ActionType:      fields.ActionType,
		Action:          fields.Action,
		Timestamp:       fields.Timestamp,
		ContextHash:     fields.ContextHash,
		PreviousReceipt: fields.PreviousReceipt,
		ReceiptHash:     receiptHash,
		SignatureB64:    codec.B64Encode(sig),
		Witnesses:       witnesses,
	}, nil
}
