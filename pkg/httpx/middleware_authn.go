package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/parishtools/flock/pkg/jwtx"
	"github.com/parishtools/flock/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token from the identity provider and
// injects the authenticated subject into the request context. It says
// nothing about membership; an identity can be authenticated and still have
// no profile.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyIdentityID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	ctx = context.WithValue(ctx, CtxKeyName, c.Name)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// IdentityFromContext returns the authenticated subject id, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyIdentityID).(string)
	return id, ok && id != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
