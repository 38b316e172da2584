package domain

import "time"

// Invitation is a single-use, time-limited credential granting a role on
// redemption. Only the SHA-256 fingerprint of the opaque token is stored;
// the raw token is returned once at mint time and never persisted.
type Invitation struct {
	ID        string
	TokenHash string
	Role      Role // role granted on redemption; immutable after creation
	CreatedBy string
	ExpiresAt time.Time
	Active    bool
	UsedBy    string     // empty until redeemed
	UsedAt    *time.Time // nil until redeemed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Used reports whether the invitation has been redeemed. A used invitation
// is permanently non-redeemable, even if Active is toggled back on.
func (i Invitation) Used() bool {
	return i.UsedBy != ""
}

// Redeemable reports whether the invitation could be redeemed at the given
// instant: active, unused, and strictly before expiry.
func (i Invitation) Redeemable(now time.Time) bool {
	return i.Active && !i.Used() && now.Before(i.ExpiresAt)
}
