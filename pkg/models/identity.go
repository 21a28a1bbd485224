package models

// IdentityState classifies how a local business key resolved against the
// CRM.
type IdentityState int

const (
	// IdentityAmbiguous means the CRM neither returned the key nor
	// reported it missing. The record is excluded from the run rather
	// than guessed at.
	IdentityAmbiguous IdentityState = iota

	// IdentityFound means the canonical key property matched.
	IdentityFound

	// IdentityFoundByAlias means a secondary/alternate value matched.
	IdentityFoundByAlias

	// IdentityNotFound means the CRM explicitly reported the key missing.
	IdentityNotFound
)

func (s IdentityState) String() string {
	switch s {
	case IdentityFound:
		return "found"
	case IdentityFoundByAlias:
		return "found_by_alias"
	case IdentityNotFound:
		return "not_found"
	default:
		return "ambiguous"
	}
}

// RemoteIdentity is the result of resolving one local key. RemoteID is
// set only for the two found states.
type RemoteIdentity struct {
	State    IdentityState
	RemoteID string
}

// Exists reports whether the key resolved to a remote record.
func (r RemoteIdentity) Exists() bool {
	return r.State == IdentityFound || r.State == IdentityFoundByAlias
}
