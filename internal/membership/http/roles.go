package http

import (
	"net/http"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
)

// RolesHandler godoc
//
//	@Summary		List Roles Endpoint
//	@Description	Returns the role hierarchy, most privileged first. Rank increases with privilege.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{object}	membersdk.ListRolesResponse	"roles"
//	@Router			/v1/roles [get].
func RolesHandler() http.HandlerFunc {
	roles := domain.Roles()
	response := membersdk.ListRolesResponse{
		Roles: make([]membersdk.RoleInfo, len(roles)),
	}
	for i, role := range roles {
		response.Roles[i] = membersdk.RoleInfo{
			Name: role.String(),
			Rank: len(roles) - i,
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
