package trust

import "github.com/agentic-identity/core/pkg/aiderr"

// ValidateDelegation is the delegation pre-check: given a parent grant and
// the capability URIs a prospective child would request, it
// reports whether the parent may authorize that delegation at all, before
// any child grant is built or signed. parent must allow delegation, the
// would-be child depth (parent.DelegationDepth+1) must not exceed parent's
// max_delegation_depth, and every requested capability must be covered by
// some capability in parent (narrowing-only).
func ValidateDelegation(parent *TrustGrant, requestedCapabilities []string) error {
	if !parent.DelegationAllowed {
		return aiderr.New(aiderr.CodeDelegationNotAllowed, "parent grant does not permit delegation")
	}
	childDepth := parent.DelegationDepth + 1
	if parent.MaxDelegationDepth != nil && childDepth > *parent.MaxDelegationDepth {
		return aiderr.Newf(aiderr.CodeDelegationDepthExceed, "delegation depth exceeds parent's max_delegation_depth",
			"depth=%d max=%d", childDepth, *parent.MaxDelegationDepth)
	}
	for _, uri := range requestedCapabilities {
		if !CapabilitiesCover(parent.Capabilities, uri) {
			return aiderr.WithURI(aiderr.CodeTrustNotGranted, "requested capability is not covered by parent grant", uri)
		}
	}
	return nil
}

// capabilityURIs extracts the URI of every capability in cs.
func capabilityURIs(cs []Capability) []string {
	uris := make([]string, len(cs))
	for i, c := range cs {
		uris[i] = c.URI
	}
	return uris
}
