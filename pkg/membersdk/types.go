package membersdk

// ErrorResponse is the standard error payload returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// CapabilityFlags are the derived permission booleans clients use to gate
// UI. Flags are cumulative down the hierarchy: an admin has all four set.
type CapabilityFlags struct {
	IsAdmin    bool `json:"is_admin"`
	IsPastor   bool `json:"is_pastor"`
	IsLeader   bool `json:"is_leader"`
	IsCoLeader bool `json:"is_co_leader"`
}

// ProfileResponse is a membership profile with its capability flags.
type ProfileResponse struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	DisplayName  string          `json:"display_name"`
	Role         string          `json:"role"`
	Group        string          `json:"group,omitempty"`
	Active       bool            `json:"active"`
	Capabilities CapabilityFlags `json:"capabilities"`
	CreatedAt    int64           `json:"created_at"`
	UpdatedAt    int64           `json:"updated_at"`
}

// ListProfilesResponse wraps the membership directory.
type ListProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

// MintInvitationRequest asks the service to mint an invitation granting
// Role. ExpiresIn is the validity window in seconds; zero means the server
// default.
type MintInvitationRequest struct {
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// MintInvitationResponse carries the one-time invite token. The token is
// shown exactly once here and cannot be recovered later.
type MintInvitationResponse struct {
	InvitationID string `json:"invitation_id"`
	InviteToken  string `json:"invite_token"`
	Role         string `json:"role"`
	ExpiresAt    int64  `json:"expires_at"`
}

// InvitationSummary is an invitation as seen in listings. The raw token is
// never included; only its existence and state.
type InvitationSummary struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	CreatedBy string `json:"created_by"`
	ExpiresAt int64  `json:"expires_at"`
	Active    bool   `json:"active"`
	UsedBy    string `json:"used_by,omitempty"`
	UsedAt    int64  `json:"used_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// ListInvitationsResponse wraps an invitation listing.
type ListInvitationsResponse struct {
	Invitations []InvitationSummary `json:"invitations"`
}

// RedeemInvitationRequest consumes an invite token on behalf of the
// authenticated identity. DisplayName and Group are optional profile
// details; email always comes from the identity token.
type RedeemInvitationRequest struct {
	InviteToken string `json:"invite_token"`
	DisplayName string `json:"display_name,omitempty"`
	Group       string `json:"group,omitempty"`
}

// RedeemInvitationResponse is the profile created or updated by a
// successful redemption.
type RedeemInvitationResponse struct {
	Profile ProfileResponse `json:"profile"`
}

// BootstrapRequest creates the first admin profile. The bootstrap token is
// the deploy-time shared secret; the admin's identity comes from the bearer
// token on the request.
type BootstrapRequest struct {
	BootstrapToken string `json:"bootstrap_token"`
	DisplayName    string `json:"display_name,omitempty"`
}

// BootstrapResponse is the newly created admin profile.
type BootstrapResponse struct {
	Profile ProfileResponse `json:"profile"`
}

// RoleInfo describes one role in the hierarchy. Rank increases with
// privilege.
type RoleInfo struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// ListRolesResponse lists the role hierarchy, most privileged first.
type ListRolesResponse struct {
	Roles []RoleInfo `json:"roles"`
}

// HealthChecks reports the state of the service's dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
