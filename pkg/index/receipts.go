// Package index implements the in-memory query indices over receipts and
// trust grants: actor/type/time for receipts, grantor/grantee/
// capability-prefix for grants, rebuildable from a directory scan since file
// contents are authoritative over any index summary.
package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/agentic-identity/core/pkg/receipt"
	"github.com/agentic-identity/core/pkg/storage"
)

// ReceiptIndex maintains actor/type/time mappings over a receipt store. A
// reader-writer lock guards every read-modify-write so concurrent readers
// are safe while index updates (which only happen after a successful atomic
// file write) are exclusive.
type ReceiptIndex struct {
	mu        sync.RWMutex
	byActor   map[string][]string
	byType    map[receipt.ActionType][]string
	timestamp map[string]uint64
}

// NewReceiptIndex returns an empty index.
func NewReceiptIndex() *ReceiptIndex {
	return &ReceiptIndex{
		byActor:   make(map[string][]string),
		byType:    make(map[receipt.ActionType][]string),
		timestamp: make(map[string]uint64),
	}
}

// Add records r in the index. Call only after r's file has been durably
// written; the index is a cache, never the source of truth.
func (idx *ReceiptIndex) Add(r *receipt.ActionReceipt) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addLocked(r)
}

func (idx *ReceiptIndex) addLocked(r *receipt.ActionReceipt) {
	idx.byActor[r.Actor] = insertSortedByTimestamp(idx.byActor[r.Actor], idx.timestamp, r.ID, r.Timestamp)
	idx.byType[r.ActionType] = insertSortedByTimestamp(idx.byType[r.ActionType], idx.timestamp, r.ID, r.Timestamp)
	idx.timestamp[r.ID] = r.Timestamp
}

func insertSortedByTimestamp(ids []string, timestamps map[string]uint64, id string, ts uint64) []string {
	i := sort.Search(len(ids), func(i int) bool { return timestamps[ids[i]] >= ts })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// ReceiptFilter narrows a receipt query by actor, type, and time window.
// Zero values mean "unconstrained" for that facet. Sort defaults to
// newest-first; set OldestFirst to reverse it.
type ReceiptFilter struct {
	Actor       string
	ActionType  receipt.ActionType
	Since       uint64
	Until       uint64
	OldestFirst bool
}

// Query returns the IDs of receipts matching filter, sorted by timestamp
// (newest-first by default).
func (idx *ReceiptIndex) Query(filter ReceiptFilter) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var candidates []string
	switch {
	case filter.Actor != "":
		candidates = append(candidates, idx.byActor[filter.Actor]...)
	case filter.ActionType != "":
		candidates = append(candidates, idx.byType[filter.ActionType]...)
	default:
		seen := make(map[string]bool)
		for _, ids := range idx.byActor {
			for _, id := range ids {
				if !seen[id] {
					seen[id] = true
					candidates = append(candidates, id)
				}
			}
		}
		sort.Slice(candidates, func(i, j int) bool {
			return idx.timestamp[candidates[i]] < idx.timestamp[candidates[j]]
		})
	}

	if filter.Actor != "" && filter.ActionType != "" {
		typeSet := make(map[string]bool, len(idx.byType[filter.ActionType]))
		for _, id := range idx.byType[filter.ActionType] {
			typeSet[id] = true
		}
		filtered := candidates[:0:0]
		for _, id := range candidates {
			if typeSet[id] {
				filtered = append(filtered, id)
			}
		}
		candidates = filtered
	}

	var result []string
	for _, id := range candidates {
		ts := idx.timestamp[id]
		if filter.Since != 0 && ts < filter.Since {
			continue
		}
		if filter.Until != 0 && ts > filter.Until {
			continue
		}
		result = append(result, id)
	}

	if !filter.OldestFirst {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}

// RebuildReceiptIndex discards the current index and rescans every receipt
// object in store, the crash-recovery path: file content is authoritative
// over any prior index state.
func RebuildReceiptIndex(store *storage.ObjectStore) (*ReceiptIndex, error) {
	idx := NewReceiptIndex()
	ids, err := store.ListReceiptIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		r, err := store.GetReceipt(id)
		if err != nil {
			return nil, err
		}
		idx.addLocked(r)
	}
	return idx, nil
}

// hasCapabilityPrefix reports whether uri begins with prefix at a token boundary,
// shared by the capability-prefix grant index.
func hasCapabilityPrefix(uri, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(uri, prefix) {
		return false
	}
	return len(uri) == len(prefix) || strings.HasSuffix(prefix, ":") || uri[len(prefix)] == ':'
}
