package receipt_test

import (
	"testing"

	"github.com/agentic-identity/core/pkg/identity"
	"github.com/agentic-identity/core/pkg/receipt"
	"github.com/stretchr/testify/require"
)

func TestSignedReceiptVerifies(t *testing.T) {
	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	r, err := receipt.New(a.ID(), receipt.ActionDecision, receipt.Action{
		Description: "Approved deployment",
		References:  []string{},
	}).Sign(a.SigningKey())
	require.NoError(t, err)

	v, err := receipt.Verify(r)
	require.NoError(t, err)
	require.True(t, v.IsValid)

	r.Action.Description = "Approved deploymenZ"
	v, err = receipt.Verify(r)
	require.NoError(t, err)
	require.False(t, v.SignatureValid)
	require.False(t, v.IsValid)
}

func TestChainIntegrity(t *testing.T) {
	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	r1, err := receipt.New(a.ID(), receipt.ActionObservation, receipt.Action{Description: "first", References: []string{}}).Sign(a.SigningKey())
	require.NoError(t, err)
	r2, err := receipt.New(a.ID(), receipt.ActionObservation, receipt.Action{Description: "second", References: []string{}}).ChainTo(r1.ID).Sign(a.SigningKey())
	require.NoError(t, err)
	r3, err := receipt.New(a.ID(), receipt.ActionObservation, receipt.Action{Description: "third", References: []string{}}).ChainTo(r2.ID).Sign(a.SigningKey())
	require.NoError(t, err)

	results, err := receipt.VerifyChain([]*receipt.ActionReceipt{r1, r2, r3})
	require.NoError(t, err)
	ok, err := receipt.ChainIsValid(results)
	require.NoError(t, err)
	require.True(t, ok)

	r2.PreviousReceipt = nil
	results, err = receipt.VerifyChain([]*receipt.ActionReceipt{r1, r2, r3})
	require.NoError(t, err)
	_, err = receipt.ChainIsValid(results)
	require.Error(t, err)
}

func TestCustomActionTypeAndDataCanonicalization(t *testing.T) {
	a, err := identity.New(nil)
	require.NoError(t, err)
	defer a.Destroy()

	r, err := receipt.New(a.ID(), receipt.ActionType("model_invocation"), receipt.Action{
		Description: "",
		Data: map[string]any{
			"zeta":  1,
			"alpha": map[string]any{"y": true, "x": "v"},
		},
		References: []string{"arec_prior"},
	}).ContextHash("deadbeef").Sign(a.SigningKey())
	require.NoError(t, err)

	// Empty description is permitted; the custom type string is hashed as-is.
	v, err := receipt.Verify(r)
	require.NoError(t, err)
	require.True(t, v.IsValid)

	// Mutating nested data must break the recomputed hash.
	r.Action.Data.(map[string]any)["zeta"] = 2
	v, err = receipt.Verify(r)
	require.NoError(t, err)
	require.False(t, v.SignatureValid)
	require.False(t, v.IsValid)
}

func TestWitnessSignatureIndependentOfPrimary(t *testing.T) {
	actor, err := identity.New(nil)
	require.NoError(t, err)
	defer actor.Destroy()
	witness, err := identity.New(nil)
	require.NoError(t, err)
	defer witness.Destroy()

	r, err := receipt.New(actor.ID(), receipt.ActionMutation, receipt.Action{Description: "mutate", References: []string{}}).
		AddWitness(witness.ID(), witness.SigningKey()).
		Sign(actor.SigningKey())
	require.NoError(t, err)

	v, err := receipt.Verify(r)
	require.NoError(t, err)
	require.True(t, v.IsValid)
	require.Len(t, v.WitnessesValid, 1)
	require.True(t, v.WitnessesValid[0])

	r.Witnesses[0].SignatureB64 = r.SignatureB64
	v, err = receipt.Verify(r)
	require.NoError(t, err)
	require.True(t, v.SignatureValid)
	require.False(t, v.WitnessesValid[0])
	require.False(t, v.IsValid)
}
