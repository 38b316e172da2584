package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the membership system
//	@Description	Creates the first admin profile from the authenticated identity. Only available while no profiles exist and a bootstrap token is configured, and requires that token in the request body.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.BootstrapRequest	true	"Bootstrap request"
//	@Success		201		{object}	membersdk.BootstrapResponse	"profile"
//	@Failure		400		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeNotFound,
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Parse request body
	var req membersdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}
	if req.BootstrapToken == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeUnauthorized,
			ErrorDescription: "bootstrap_token is required",
		})
		return
	}

	// 3. The admin's identity comes from the verified bearer token.
	identityID, ok := httpx.IdentityFromContext(ctx)
	if !ok || identityID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}
	email, _ := ctx.Value(httpx.CtxKeyEmail).(string)
	displayName := req.DisplayName
	if displayName == "" {
		displayName, _ = ctx.Value(httpx.CtxKeyName).(string)
	}

	admin, err := h.BootstrapService.Bootstrap(ctx, req.BootstrapToken, identityID, email, displayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeUnauthorized,
				ErrorDescription: "Invalid bootstrap token",
			})
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteJSON(w, http.StatusConflict, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeConflict,
				ErrorDescription: "Membership is already bootstrapped",
			})
		case errors.Is(err, service.ErrInvalidInvitationRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Identity token is missing an email claim",
			})
		default:
			log.Error("bootstrap failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeServerError,
				ErrorDescription: "Failed to bootstrap membership",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, membersdk.BootstrapResponse{
		Profile: profileResponse(admin),
	})
}
