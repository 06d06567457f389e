package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/agentic-identity/core/pkg/identity"
	"github.com/agentic-identity/core/pkg/receipt"
	"github.com/agentic-identity/core/pkg/storage"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadIdentityRoundTrip(t *testing.T) {
	name := "agent"
	a, err := identity.New(&name)
	require.NoError(t, err)
	defer a.Destroy()

	path := filepath.Join(t.TempDir(), "a.aid")
	require.NoError(t, storage.SaveIdentity(a, path, "correct horse"))

	loaded, err := storage.LoadIdentity(path, "correct horse")
	require.NoError(t, err)
	defer loaded.Destroy()

	require.Equal(t, a.ID(), loaded.ID())
	require.Equal(t, a.VerifyingKey(), loaded.VerifyingKey())

	_, err = storage.LoadIdentity(path, "wrong passphrase")
	require.Error(t, err)
	code, ok := aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeInvalidPassphrase, code)
}

func TestEnvelopeFormatRejection(t *testing.T) {
	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	path := filepath.Join(t.TempDir(), "a.aid")
	require.NoError(t, storage.SaveIdentity(a, path, "pw"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	mutate := func(t *testing.T, change func(m map[string]any)) string {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		change(m)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		p := filepath.Join(t.TempDir(), "mutated.aid")
		require.NoError(t, os.WriteFile(p, out, 0o600))
		return p
	}

	// version other than 1 is InvalidFileFormat.
	p := mutate(t, func(m map[string]any) { m["version"] = 2 })
	_, err = storage.ReadPublicDocument(p)
	code, ok := aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeInvalidFileFormat, code)

	// Unknown top-level fields are InvalidFileFormat.
	p = mutate(t, func(m map[string]any) { m["extra"] = "field" })
	_, err = storage.ReadPublicDocument(p)
	code, ok = aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeInvalidFileFormat, code)

	// Wrong format string is InvalidFileFormat.
	p = mutate(t, func(m map[string]any) { m["format"] = "aid-v2" })
	_, err = storage.LoadIdentity(p, "pw")
	code, ok = aiderr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, aiderr.CodeInvalidFileFormat, code)
}

func TestReadPublicDocumentWithoutPassphrase(t *testing.T) {
	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	path := filepath.Join(t.TempDir(), "a.aid")
	require.NoError(t, storage.SaveIdentity(a, path, "pw"))

	doc, err := storage.ReadPublicDocument(path)
	require.NoError(t, err)
	require.Equal(t, a.ID(), doc.ID)
	ok, err := doc.VerifySignature()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestObjectStoreRoundTripAndTmpTolerance(t *testing.T) {
	dir := t.TempDir()
	backend, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	store := storage.NewObjectStore(backend)

	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	r, err := receipt.New(a.ID(), receipt.ActionObservation, receipt.Action{Description: "seen", References: []string{}}).Sign(a.SigningKey())
	require.NoError(t, err)

	require.NoError(t, store.PutReceipt(r))
	has, err := store.HasReceipt(r.ID)
	require.NoError(t, err)
	require.True(t, has)

	got, err := store.GetReceipt(r.ID)
	require.NoError(t, err)
	require.Equal(t, r.ID, got.ID)

	// A stray temp file left from an interrupted write must not surface in listings.
	require.NoError(t, backend.Put("receipts/stray.json.tmp-deadbeef", []byte("{}")))

	ids, err := store.ListReceiptIDs()
	require.NoError(t, err)
	require.Equal(t, []string{r.ID}, ids)
}

func TestMemBackendMatchesFileBackendSemantics(t *testing.T) {
	backend := storage.NewMemBackend()
	require.NoError(t, backend.Put("grants/g1.json", []byte(`{"id":"g1"}`)))

	ok, err := backend.Exists("grants/g1.json")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := backend.Get("grants/g1.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"g1"}`, string(data))

	_, err = backend.Get("grants/missing.json")
	require.Error(t, err)
}
