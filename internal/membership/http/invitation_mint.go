package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

const (
	defaultInvitationTTL = 7 * 24 * time.Hour
	maxInvitationTTL     = 90 * 24 * time.Hour
)

type InvitationMintHandler struct {
	InvitationService *service.InvitationService
	Resolver          *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Mint Invitation Endpoint
//	@Description	Mint a single-use invitation token granting a role strictly below the caller's own. The raw token is returned exactly once and never stored.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.MintInvitationRequest		true	"Invitation request"
//	@Success		201		{object}	membersdk.MintInvitationResponse	"invitation_id, invite_token, role, expires_at"
//	@Failure		400		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationMintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Parse JSON request body
	var req membersdk.MintInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.Role == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "role is required",
		})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Unknown role: " + req.Role,
		})
		return
	}

	// Default the validity window when the caller doesn't pick one.
	ttl := defaultInvitationTTL
	if req.ExpiresIn != 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
	}
	if ttl <= 0 || ttl > maxInvitationTTL {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "expires_in must be positive and at most 90 days",
		})
		return
	}

	actor, ok := resolveActor(w, r, h.Resolver)
	if !ok {
		return
	}

	inv, token, err := h.InvitationService.IssueInvitation(ctx, actor, role, ttl)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientPrivilege):
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "You may only invite roles below your own",
			})
		case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, service.ErrInvalidInvitationRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid invitation parameters",
			})
		default:
			log.Error("failed to mint invitation", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create invitation",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, membersdk.MintInvitationResponse{
		InvitationID: inv.ID,
		InviteToken:  token,
		Role:         inv.Role.String(),
		ExpiresAt:    inv.ExpiresAt.Unix(),
	})
}
