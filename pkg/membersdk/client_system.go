package membersdk

import (
	"context"
	"net/http"
)

// Livez reports basic process health.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/livez", &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz reports whether the service can serve traffic, including the state
// of its dependencies. A degraded service returns an *APIError with status
// 503 alongside a nil response.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/readyz", &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Roles lists the role hierarchy, most privileged first.
func (c *Client) Roles(ctx context.Context) (*ListRolesResponse, error) {
	var out ListRolesResponse
	if err := c.getJSON(ctx, "/v1/roles", &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first admin profile from the session's identity.
// Only succeeds while no profiles exist and the bootstrap token matches the
// deploy-time secret.
func (s *Session) Bootstrap(ctx context.Context, req BootstrapRequest) (*BootstrapResponse, error) {
	var out BootstrapResponse
	if err := s.client.postJSON(ctx, "/v1/bootstrap", req, &out, s.token, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
