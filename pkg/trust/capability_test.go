package trust_test

import (
	"testing"

	"github.com/agentic-identity/core/pkg/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCovers(t *testing.T) {
	cases := []struct {
		granted   string
		requested string
		want      bool
	}{
		{"a:*:c", "a:b:c", true},
		{"a:*:c", "a:b:d", false},
		{"*", "anything", true},
		{"*", "a:b:c", true},
		{"a:b:*", "a:b:c:d", true},
		{"a:b:*", "a:b:c", true},
		{"a:b:*", "a:b", false},
		{"a", "a:b", false},
		{"a", "a", true},
		{"a:b:c", "a:b:c", true},
		{"a:b:c", "a:b", false},
		{"read:calendar", "read:calendar", true},
		{"read:calendar", "write:calendar", false},
		{"read:*", "read:calendar", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, trust.Covers(tc.granted, tc.requested),
			"Covers(%q, %q)", tc.granted, tc.requested)
	}
}

func TestCapabilitiesCoverAll(t *testing.T) {
	granted := []trust.Capability{
		{URI: "fs:read:*"},
		{URI: "api:call"},
	}

	require.True(t, trust.CapabilitiesCover(granted, "fs:read:reports"))
	require.False(t, trust.CapabilitiesCover(granted, "fs:write:reports"))

	require.True(t, trust.CapabilitiesCoverAll(granted, []string{"fs:read:a", "api:call"}))
	require.False(t, trust.CapabilitiesCoverAll(granted, []string{"fs:read:a", "api:other"}))
	require.True(t, trust.CapabilitiesCoverAll(granted, nil))
}

func TestValidURI(t *testing.T) {
	valid := []string{"a", "a:b:c", "read:calendar", "fs:read:*", "*", "a_b-C9:x"}
	for _, uri := range valid {
		assert.True(t, trust.ValidURI(uri), "ValidURI(%q)", uri)
	}
	invalid := []string{"", "a::b", ":a", "a:", "a b", "a:b.c", "a:**b"}
	for _, uri := range invalid {
		assert.False(t, trust.ValidURI(uri), "ValidURI(%q)", uri)
	}
}
