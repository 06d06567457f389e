package trust

// TrustConstraints bounds when and how often a grant may be used.
type TrustConstraints struct {
	NotBefore   uint64   `json:"not_before"`
	NotAfter    *uint64  `json:"not_after,omitempty"`
	MaxUses     *uint64  `json:"max_uses,omitempty"`
	Geographic  []string `json:"geographic,omitempty"`
	IPAllowlist []string `json:"ip_allowlist,omitempty"`
	Custom      any      `json:"custom,omitempty"`
}

// RevocationChannelKind names the channel variants. Only Local is ever read
// by this module; Http and Ledger are opaque labels the core never
// dereferences over the network.
type RevocationChannelKind string

const (
	ChannelLocal  RevocationChannelKind = "local"
	ChannelHTTP   RevocationChannelKind = "http"
	ChannelLedger RevocationChannelKind = "ledger"
	ChannelMulti  RevocationChannelKind = "multi"
)

// RevocationChannel is a storage-layout descriptor, not a fetcher.
type RevocationChannel struct {
	Kind     RevocationChannelKind `json:"kind"`
	URL      string                `json:"url,omitempty"`
	LedgerID string                `json:"ledger_id,omitempty"`
	Multi    []RevocationChannel   `json:"multi,omitempty"`
}

// LocalChannel is the default: revocations are read from local object files.
func LocalChannel() RevocationChannel { return RevocationChannel{Kind: ChannelLocal} }

// RevocationConfig names which channel(s) a grant's revocations are published to.
type RevocationConfig struct {
	Channel RevocationChannel `json:"channel"`
}

// TrustGrant is a signed, time-bounded, usage-limited, revocable assertion
// that grantor permits grantee to exercise a set of capabilities.
type TrustGrant struct {
	ID                       string           `json:"id"`
	Grantor                  string           `json:"grantor"`
	GrantorKeyB64            string           `json:"grantor_key_b64"`
	Grantee                  string           `json:"grantee"`
	GranteeKeyB64            string           `json:"grantee_key_b64"`
	Capabilities             []Capability     `json:"capabilities"`
	Constraints              TrustConstraints `json:"constraints"`
	DelegationAllowed        bool             `json:"delegation_allowed"`
	MaxDelegationDepth       *uint32          `json:"max_delegation_depth,omitempty"`
	ParentGrant              *string          `json:"parent_grant,omitempty"`
	DelegationDepth          uint32           `json:"delegation_depth"`
	Revocation               RevocationConfig `json:"revocation"`
	GrantedAt                uint64           `json:"granted_at"`
	GrantHash                string           `json:"grant_hash"`
	GrantorSignatureB64      string           `json:"grantor_signature_b64"`
	GranteeAcknowledgmentB64 *string          `json:"grantee_acknowledgment_b64,omitempty"`
}

// hashedGrantFields is the payload canonicalized and hashed to produce
// grant_hash (every TrustGrant field except id/grant_hash/signatures).
type hashedGrantFields struct {
	Grantor            string           `json:"grantor"`
	GrantorKeyB64      string           `json:"grantor_key_b64"`
	Grantee            string           `json:"grantee"`
	GranteeKeyB64      string           `json:"grantee_key_b64"`
	Capabilities       []Capability     `json:"capabilities"`
	Constraints        TrustConstraints `json:"constraints"`
	DelegationAllowed  bool             `json:"delegation_allowed"`
	MaxDelegationDepth *uint32          `json:"max_delegation_depth,omitempty"`
	ParentGrant        *string          `json:"parent_grant,omitempty"`
	DelegationDepth    uint32           `json:"delegation_depth"`
	Revocation         RevocationConfig `json:"revocation"`
	GrantedAt          uint64           `json:"granted_at"`
}

// RevocationReason enumerates why a grant was revoked.
type RevocationReason string

const (
	ReasonManualRevocation RevocationReason = "manual_revocation"
	ReasonPolicyViolation  RevocationReason = "policy_violation"
	ReasonKeyCompromise    RevocationReason = "key_compromise"
	ReasonExpired          RevocationReason = "expired"
	ReasonSuperseded       RevocationReason = "superseded"
)

// Revocation invalidates a grant from RevokedAt onward.
type Revocation struct {
	TrustID      string           `json:"trust_id"`
	RevokedBy    string           `json:"revoked_by"`
	Reason       RevocationReason `json:"reason"`
	RevokedAt    uint64           `json:"revoked_at"`
	SignatureB64 string           `json:"signature_b64"`
}

// hashedRevocationFields is canonicalized and signed for a Revocation.
type hashedRevocationFields struct {
	TrustID   string           `json:"trust_id"`
	RevokedBy string           `json:"revoked_by"`
	Reason    RevocationReason `json:"reason"`
	RevokedAt uint64           `json:"revoked_at"`
}

// Verification is the result of verifying a single grant. Like
// receipt.Verification, it is a result object, not an error channel.
type Verification struct {
	SignatureValid    bool
	TimeValid         bool
	NotRevoked        bool
	UsesValid         bool
	CapabilityGranted bool
	IsValid           bool
	TrustChain        []string
}
