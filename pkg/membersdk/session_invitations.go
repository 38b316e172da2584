package membersdk

import (
	"context"
	"net/http"
)

// MintInvitation creates a new invitation. The caller's profile role must
// be strictly above the requested role.
func (s *Session) MintInvitation(ctx context.Context, req MintInvitationRequest) (*MintInvitationResponse, error) {
	var out MintInvitationResponse
	if err := s.client.postJSON(ctx, "/v1/invitations", req, &out, s.token, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvitations lists invitations visible to the caller: admins see all,
// everyone else only their own.
func (s *Session) ListInvitations(ctx context.Context) (*ListInvitationsResponse, error) {
	var out ListInvitationsResponse
	if err := s.client.getJSON(ctx, "/v1/invitations", &out, s.token); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeInvitation deactivates an invitation. Only the issuer or an admin
// may revoke.
func (s *Session) RevokeInvitation(ctx context.Context, invitationID string) error {
	return s.client.postJSON(ctx, "/v1/invitations/"+invitationID+"/revoke", nil, nil, s.token, http.StatusNoContent)
}

// RedeemInvitation consumes an invite token for the session's identity,
// creating or updating its membership profile with the granted role.
func (s *Session) RedeemInvitation(ctx context.Context, req RedeemInvitationRequest) (*RedeemInvitationResponse, error) {
	var out RedeemInvitationResponse
	if err := s.client.postJSON(ctx, "/v1/invitations/redeem", req, &out, s.token, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
