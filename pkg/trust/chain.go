package trust

import "github.com/agentic-identity/core/pkg/aiderr"

// ChainVerification is the result of verifying a full delegation chain,
// root first, leaf last.
type ChainVerification struct {
	Links             []Verification
	DelegationValid   bool
	EffectiveNotAfter *uint64
	EffectiveMaxUses  *uint64
	IsValid           bool
	TrustChain        []string
}

// VerifyTrustChain verifies every grant in chain independently, validates
// each delegation link (narrowing-only, depth, revocation cascade through
// ancestors), and aggregates the most-restrictive constraint across the
// whole chain (min not_after, min max_uses). Usage counts are per grant and
// tracked by the caller; the chain result reports EffectiveMaxUses as the
// bound to enforce but does not gate IsValid on a usage check.
func VerifyTrustChain(chain []*TrustGrant, requestedCapability string, revocationsByGrant map[string][]*Revocation) (ChainVerification, error) {
	cv := ChainVerification{}
	if len(chain) == 0 {
		return cv, aiderr.New(aiderr.CodeInvalidChain, "trust chain is empty")
	}

	for _, g := range chain {
		cv.TrustChain = append(cv.TrustChain, g.ID)
		v, err := VerifyTrustGrant(g, requestedCapability, 0, revocationsByGrant[g.ID])
		if err != nil {
			return cv, err
		}
		cv.Links = append(cv.Links, v)
	}

	cv.DelegationValid = true
	for i := 1; i < len(chain); i++ {
		parent, child := chain[i-1], chain[i]
		if child.ParentGrant == nil || *child.ParentGrant != parent.ID {
			cv.DelegationValid = false
			break
		}
		if child.DelegationDepth != parent.DelegationDepth+1 {
			cv.DelegationValid = false
			break
		}
		if err := ValidateDelegation(parent, capabilityURIs(child.Capabilities)); err != nil {
			cv.DelegationValid = false
			break
		}
	}

	// capability_granted only needs to hold for the leaf grant actually
	// presented; every other link's CapabilityGranted is informational.
	leafVerified := cv.Links[len(cv.Links)-1]

	everyLinkOK := true
	for _, v := range cv.Links {
		if !v.SignatureValid || !v.TimeValid || !v.NotRevoked {
			everyLinkOK = false
			break
		}
	}

	for _, g := range chain {
		if g.Constraints.NotAfter != nil {
			if cv.EffectiveNotAfter == nil || *g.Constraints.NotAfter < *cv.EffectiveNotAfter {
				na := *g.Constraints.NotAfter
				cv.EffectiveNotAfter = &na
			}
		}
		if g.Constraints.MaxUses != nil {
			if cv.EffectiveMaxUses == nil || *g.Constraints.MaxUses < *cv.EffectiveMaxUses {
				mu := *g.Constraints.MaxUses
				cv.EffectiveMaxUses = &mu
			}
		}
	}

	cv.IsValid = everyLinkOK && cv.DelegationValid && leafVerified.CapabilityGranted
	return cv, nil
}

// ChainIsValid is the collapsing helper mirroring receipt.ChainIsValid: it
// returns the aggregate validity or a typed error identifying which facet
// broke the chain.
func ChainIsValid(cv ChainVerification) (bool, error) {
	if len(cv.Links) == 0 {
		return false, aiderr.New(aiderr.CodeInvalidChain, "trust chain is empty")
	}
	if !cv.DelegationValid {
		return false, aiderr.New(aiderr.CodeInvalidChain, "delegation link is invalid")
	}
	for i, v := range cv.Links {
		if !v.SignatureValid {
			return false, aiderr.Newf(aiderr.CodeSignatureInvalid, "grant signature invalid in chain", "index=%d id=%s", i, cv.TrustChain[i])
		}
		if !v.NotRevoked {
			return false, aiderr.Newf(aiderr.CodeTrustRevoked, "grant revoked in chain", "index=%d id=%s", i, cv.TrustChain[i])
		}
		if !v.TimeValid {
			return false, aiderr.Newf(aiderr.CodeTrustExpired, "grant outside validity window in chain", "index=%d id=%s", i, cv.TrustChain[i])
		}
	}
	return cv.IsValid, nil
}
