package receipt

import (
	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/clock"
	"github.com/agentic-identity/core/pkg/codec"
	icrypto "github.com/agentic-identity/core/pkg/crypto"
)

// Verify recomputes receipt_hash from the stored fields and checks the
// primary signature and every witness signature against it. Verification
// never reports failures through the error channel except for malformed
// input (undecodable keys/signatures); an error there fails closed with
// IsValid=false.
func Verify(r *ActionReceipt) (Verification, error) {
	v := Verification{VerifiedAt: clock.NowMicros()}

	fields := hashedFields{
		Actor:           r.Actor,
		ActorKeyB64:     r.ActorKeyB64,
		ActionType:      r.ActionType,
		Action:          r.Action,
		Timestamp:       r.Timestamp,
		ContextHash:     r.ContextHash,
		PreviousReceipt: r.PreviousReceipt,
	}
	canonicalBytes, err := codec.CanonicalJSON(fields)
	if err != nil {
		return v, aiderr.Wrap(aiderr.CodeSerializationError, "failed to canonicalize receipt", err)
	}
	recomputedHash := codec.SHA256Hex(canonicalBytes)

	if recomputedHash != r.ReceiptHash {
		v.SignatureValid = false
		v.WitnessesValid = make([]bool, len(r.Witnesses))
		v.IsValid = false
		return v, nil
	}

	hashBytes, err := codec.HexDecode(r.ReceiptHash)
	if err != nil {
		return v, aiderr.Wrap(aiderr.CodeSerializationError, "failed to decode receipt_hash", err)
	}

	actorKey, err := codec.B64Decode(r.ActorKeyB64)
	if err != nil {
		return v, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid actor_key_b64", err)
	}
	sig, err := codec.B64Decode(r.SignatureB64)
	if err != nil {
		return v, aiderr.Wrap(aiderr.CodeInvalidKey, "invalid signature_b64", err)
	}
	sigValid, err := icrypto.Verify(actorKey, hashBytes, sig)
	if err != nil {
		return v, err
	}
	v.SignatureValid = sigValid

	v.WitnessesValid = make([]bool, len(r.Witnesses))
	allWitnessesValid := true
	for i, w := range r.Witnesses {
		wKey, err := codec.B64Decode(w.WitnessKeyB64)
		if err != nil {
			allWitnessesValid = false
			continue
		}
		wSig, err := codec.B64Decode(w.SignatureB64)
		if err != nil {
			allWitnessesValid = false
			continue
		}
		ok, err := icrypto.Verify(wKey, hashBytes, wSig)
		if err != nil || !ok {
			allWitnessesValid = false
			v.WitnessesValid[i] = false
			continue
		}
		v.WitnessesValid[i] = true
	}

	v.IsValid = v.SignatureValid && allWitnessesValid
	return v, nil
}
