package membersdk

import (
	"context"
	"net/http"
)

// Profile resolves the session identity's own membership profile and
// capability flags.
func (s *Session) Profile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := s.client.getJSON(ctx, "/v1/profile", &out, s.token); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProfiles returns the membership directory. Requires leader or above.
func (s *Session) ListProfiles(ctx context.Context) (*ListProfilesResponse, error) {
	var out ListProfilesResponse
	if err := s.client.getJSON(ctx, "/v1/profiles", &out, s.token); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateProfile marks a profile inactive. Admin only.
func (s *Session) DeactivateProfile(ctx context.Context, profileID string) error {
	return s.client.postJSON(ctx, "/v1/profiles/"+profileID+"/deactivate", nil, nil, s.token, http.StatusNoContent)
}
