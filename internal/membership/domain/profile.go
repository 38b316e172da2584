package domain

import "time"

// Profile is the application-level record for an authenticated identity.
// The ID matches the identity provider's subject claim. Profiles are never
// deleted; deactivation flips Active instead.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
	Group       string // optional ministry-group affiliation label
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Capabilities are the derived privilege flags for a profile. Each flag is
// true when the role is at least that level, so they are monotonic:
// IsAdmin implies IsPastor implies IsLeader implies IsCoLeader.
type Capabilities struct {
	IsAdmin    bool
	IsPastor   bool
	IsLeader   bool
	IsCoLeader bool
}

// Capabilities derives the flag set from the profile's role. The flags are
// computed from the same role value, never from a separate lookup, so they
// cannot drift from Role.
func (p Profile) Capabilities() Capabilities {
	return Capabilities{
		IsAdmin:    p.Role.AtLeast(RoleAdmin),
		IsPastor:   p.Role.AtLeast(RolePastor),
		IsLeader:   p.Role.AtLeast(RoleLeader),
		IsCoLeader: p.Role.AtLeast(RoleCoLeader),
	}
}
