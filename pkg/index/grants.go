package index

import (
	"sort"
	"sync"

	"github.com/agentic-identity/core/pkg/storage"
	"github.com/agentic-identity/core/pkg/trust"
)

// GrantIndex maintains grantor/grantee/capability-prefix mappings over a
// grant store.
type GrantIndex struct {
	mu        sync.RWMutex
	byGrantor map[string][]string
	byGrantee map[string][]string
	byCapURI  map[string][]string // capability URI -> grant IDs, narrowed further at query time
}

// NewGrantIndex returns an empty index.
func NewGrantIndex() *GrantIndex {
	return &GrantIndex{
		byGrantor: make(map[string][]string),
		byGrantee: make(map[string][]string),
		byCapURI:  make(map[string][]string),
	}
}

// Add records g in the index. Call only after g's file has been durably
// written.
func (idx *GrantIndex) Add(g *trust.TrustGrant) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addLocked(g)
}

func (idx *GrantIndex) addLocked(g *trust.TrustGrant) {
	idx.byGrantor[g.Grantor] = append(idx.byGrantor[g.Grantor], g.ID)
	idx.byGrantee[g.Grantee] = append(idx.byGrantee[g.Grantee], g.ID)
	for _, c := range g.Capabilities {
		idx.byCapURI[c.URI] = append(idx.byCapURI[c.URI], g.ID)
	}
}

// GrantFilter narrows a grant query by grantor, grantee, and
// capability-URI prefix, with an optional direct-verification pass.
type GrantFilter struct {
	Grantor             string
	Grantee             string
	CapabilityPrefix    string
	ValidOnly           bool
	RequestedCapability string // used with ValidOnly to check capability_granted
	CurrentUses         uint64
}

// Query returns the IDs of grants matching filter. When ValidOnly is set,
// each candidate is additionally checked with trust.VerifyTrustGrant against
// RequestedCapability/CurrentUses/revocations.
func (idx *GrantIndex) Query(store *storage.ObjectStore, filter GrantFilter) ([]string, error) {
	idx.mu.RLock()
	candidates := idx.collectLocked(filter)
	idx.mu.RUnlock()

	if !filter.ValidOnly {
		sort.Strings(candidates)
		return candidates, nil
	}

	revocations, err := store.ListRevocations()
	if err != nil {
		return nil, err
	}
	byGrant := make(map[string][]*trust.Revocation)
	for _, rev := range revocations {
		byGrant[rev.TrustID] = append(byGrant[rev.TrustID], rev)
	}

	var result []string
	for _, id := range candidates {
		g, err := store.GetGrant(id)
		if err != nil {
			return nil, err
		}
		v, err := trust.VerifyTrustGrant(g, filter.RequestedCapability, filter.CurrentUses, byGrant[g.ID])
		if err != nil {
			return nil, err
		}
		if v.IsValid {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (idx *GrantIndex) collectLocked(filter GrantFilter) []string {
	var base []string
	switch {
	case filter.Grantor != "":
		base = append(base, idx.byGrantor[filter.Grantor]...)
	case filter.Grantee != "":
		base = append(base, idx.byGrantee[filter.Grantee]...)
	default:
		seen := make(map[string]bool)
		for _, ids := range idx.byGrantor {
			for _, id := range ids {
				if !seen[id] {
					seen[id] = true
					base = append(base, id)
				}
			}
		}
	}

	if filter.Grantor != "" && filter.Grantee != "" {
		granteeSet := make(map[string]bool, len(idx.byGrantee[filter.Grantee]))
		for _, id := range idx.byGrantee[filter.Grantee] {
			granteeSet[id] = true
		}
		filtered := base[:0:0]
		for _, id := range base {
			if granteeSet[id] {
				filtered = append(filtered, id)
			}
		}
		base = filtered
	}

	if filter.CapabilityPrefix == "" {
		return base
	}
	prefixSet := make(map[string]bool)
	for uri, ids := range idx.byCapURI {
		if hasCapabilityPrefix(uri, filter.CapabilityPrefix) {
			for _, id := range ids {
				prefixSet[id] = true
			}
		}
	}
	filtered := base[:0:0]
	for _, id := range base {
		if prefixSet[id] {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// RebuildGrantIndex discards any prior state and rescans every grant object
// in store (crash-recovery path).
func RebuildGrantIndex(store *storage.ObjectStore) (*GrantIndex, error) {
	idx := NewGrantIndex()
	ids, err := store.ListGrantIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		g, err := store.GetGrant(id)
		if err != nil {
			return nil, err
		}
		idx.addLocked(g)
	}
	return idx, nil
}
