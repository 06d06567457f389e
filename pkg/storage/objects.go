package storage

import (
	"encoding/json"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/codec"
	"github.com/agentic-identity/core/pkg/receipt"
	"github.com/agentic-identity/core/pkg/trust"
)

// Fixed directory hierarchy rooted at the caller-supplied data directory:
// one subdirectory per object kind, one file per object ID.
const (
	receiptsDir    = "receipts"
	grantsDir      = "grants"
	revocationsDir = "revocations"
)

// ObjectStore persists receipts, grants, and revocations as one canonical
// JSON file per object under a Backend.
type ObjectStore struct {
	backend Backend
}

// NewObjectStore wraps backend with the per-object-kind directory layout.
func NewObjectStore(backend Backend) *ObjectStore {
	return &ObjectStore{backend: backend}
}

func receiptKey(id string) string    { return receiptsDir + "/" + id + ".json" }
func grantKey(id string) string      { return grantsDir + "/" + id + ".json" }
func revocationKey(id string) string { return revocationsDir + "/" + id + ".json" }

// PutReceipt writes r's canonical JSON under its ID. Objects are
// append-only: rewriting an existing ID is a programming error, and callers
// that care check HasReceipt first.
func (s *ObjectStore) PutReceipt(r *receipt.ActionReceipt) error {
	data, err := codec.CanonicalJSON(r)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to serialize receipt", err)
	}
	return s.backend.Put(receiptKey(r.ID), data)
}

// GetReceipt reads and deserializes the receipt stored under id.
func (s *ObjectStore) GetReceipt(id string) (*receipt.ActionReceipt, error) {
	data, err := s.backend.Get(receiptKey(id))
	if err != nil {
		return nil, err
	}
	var r receipt.ActionReceipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to deserialize receipt", err)
	}
	return &r, nil
}

// HasReceipt reports whether id has already been written.
func (s *ObjectStore) HasReceipt(id string) (bool, error) {
	return s.backend.Exists(receiptKey(id))
}

// ListReceiptIDs returns every stored receipt ID in lexicographic key order.
func (s *ObjectStore) ListReceiptIDs() ([]string, error) {
	return listIDs(s.backend, receiptsDir)
}

// PutGrant writes g's canonical JSON under its ID.
func (s *ObjectStore) PutGrant(g *trust.TrustGrant) error {
	data, err := codec.CanonicalJSON(g)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to serialize grant", err)
	}
	return s.backend.Put(grantKey(g.ID), data)
}

// GetGrant reads and deserializes the grant stored under id.
func (s *ObjectStore) GetGrant(id string) (*trust.TrustGrant, error) {
	data, err := s.backend.Get(grantKey(id))
	if err != nil {
		return nil, err
	}
	var g trust.TrustGrant
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to deserialize grant", err)
	}
	return &g, nil
}

// HasGrant reports whether id has already been written.
func (s *ObjectStore) HasGrant(id string) (bool, error) {
	return s.backend.Exists(grantKey(id))
}

// ListGrantIDs returns every stored grant ID in lexicographic key order.
func (s *ObjectStore) ListGrantIDs() ([]string, error) {
	return listIDs(s.backend, grantsDir)
}

// PutRevocation writes rev's canonical JSON under its trust_id.
func (s *ObjectStore) PutRevocation(rev *trust.Revocation) error {
	data, err := codec.CanonicalJSON(rev)
	if err != nil {
		return aiderr.Wrap(aiderr.CodeSerializationError, "failed to serialize revocation", err)
	}
	return s.backend.Put(revocationKey(rev.TrustID), data)
}

// GetRevocation reads and deserializes the revocation stored for trustID, if
// any.
func (s *ObjectStore) GetRevocation(trustID string) (*trust.Revocation, error) {
	data, err := s.backend.Get(revocationKey(trustID))
	if err != nil {
		return nil, err
	}
	var rev trust.Revocation
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeSerializationError, "failed to deserialize revocation", err)
	}
	return &rev, nil
}

// ListRevocations loads every revocation object under the revocations
// directory. Used by the grant index's valid-only query to assemble the
// revocations-by-grant map.
func (s *ObjectStore) ListRevocations() ([]*trust.Revocation, error) {
	ids, err := listIDs(s.backend, revocationsDir)
	if err != nil {
		return nil, err
	}
	revs := make([]*trust.Revocation, 0, len(ids))
	for _, id := range ids {
		rev, err := s.GetRevocation(id)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, nil
}

func listIDs(backend Backend, dir string) ([]string, error) {
	keys, err := backend.List(dir)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		name := k[len(dir)+1:]
		ids = append(ids, trimJSONSuffix(name))
	}
	return ids, nil
}

func trimJSONSuffix(name string) string {
	const suffix = ".json"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)]
	}
	return name
}
