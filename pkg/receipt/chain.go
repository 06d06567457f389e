package receipt

import "github.com/agentic-identity/core/pkg/aiderr"

// VerifyChain verifies a slice of receipts oldest-first: each receipt must
// individually verify, and for i >= 1, receipts[i].previous_receipt must
// equal receipts[i-1].id. verify_chain accepts any starting point — the
// first receipt's previous_receipt may be nil or may itself chain further
// back; only link integrity within the given slice is checked.
func VerifyChain(receipts []*ActionReceipt) ([]Verification, error) {
	results := make([]Verification, len(receipts))

	for i, r := range receipts {
		v, err := Verify(r)
		if err != nil {
			return results, err
		}

		chainValid := true
		if i > 0 {
			prev := receipts[i-1]
			if r.PreviousReceipt == nil || *r.PreviousReceipt != prev.ID {
				chainValid = false
			}
		}
		v.ChainValid = &chainValid
		v.IsValid = v.IsValid && chainValid
		results[i] = v
	}

	return results, nil
}

// ChainIsValid is a convenience check over VerifyChain's results: the whole
// chain is valid iff every link verified and every link's signature (and
// witnesses) verified. A break in linkage or any invalid signature fails the
// chain with InvalidChain.
func ChainIsValid(results []Verification) (bool, error) {
	if len(results) == 0 {
		return false, aiderr.New(aiderr.CodeInvalidChain, "empty receipt chain")
	}
	for _, r := range results {
		if !r.IsValid {
			return false, aiderr.New(aiderr.CodeInvalidChain, "receipt chain contains an invalid or broken link")
		}
	}
	return true, nil
}
