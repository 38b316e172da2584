package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/jwtx"
	"github.com/parishtools/flock/pkg/slogx"

	_ "github.com/parishtools/flock/api/membership" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	InvitationService *service.InvitationService
	ProfileService    *service.ProfileService
	BootstrapService  *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerProfiles()
	r.registerRoles()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Flock Membership Service API
//	@version		0.1.0
//	@description	Membership service for ministry teams: a four-tier role hierarchy, invitation-based onboarding with single-use tokens, and profile resolution with derived capability flags.
//	@description
//	@description				Identity is established by an external provider; requests carry its HS256-signed JWT as a bearer token.
//
//	@contact.name				ParishTools Team
//	@contact.url				https://github.com/parishtools/flock
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity provider JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitations() {
	mintHandler := &InvitationMintHandler{
		InvitationService: r.InvitationService,
		Resolver:          r.ProfileService,
	}
	listHandler := &InvitationListHandler{
		InvitationService: r.InvitationService,
		Resolver:          r.ProfileService,
	}
	revokeHandler := &InvitationRevokeHandler{
		InvitationService: r.InvitationService,
		Resolver:          r.ProfileService,
	}
	redeemHandler := &InvitationRedeemHandler{
		InvitationService: r.InvitationService,
		ProfileService:    r.ProfileService,
	}

	// POST /invitations - moderate rate limit by identity (privileged operation)
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(mintHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)

	// GET /invitations - lenient rate limit by identity (read operation)
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		),
	)

	// POST /invitations/{id}/revoke - moderate rate limit by identity
	r.Mux.Handle("POST /v1/invitations/{id}/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)

	// POST /invitations/redeem - strict rate limit by IP (onboarding
	// endpoint, callers have no profile yet so identity limits can't help)
	r.Mux.Handle("POST /v1/invitations/redeem",
		httpx.Chain(redeemHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProfiles() {
	resolveHandler := &ProfileHandler{ProfileService: r.ProfileService}
	listHandler := &ProfileListHandler{
		ProfileService: r.ProfileService,
		Resolver:       r.ProfileService,
	}
	deactivateHandler := &ProfileDeactivateHandler{
		ProfileService: r.ProfileService,
		Resolver:       r.ProfileService,
	}

	// GET /profile - lenient rate limit by identity (every client calls
	// this on startup)
	r.Mux.Handle("GET /v1/profile",
		httpx.Chain(resolveHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		),
	)

	// GET /profiles - moderate rate limit by identity
	r.Mux.Handle("GET /v1/profiles",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)

	// POST /profiles/{id}/deactivate - moderate rate limit by identity
	r.Mux.Handle("POST /v1/profiles/{id}/deactivate",
		httpx.Chain(deactivateHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRoles() {
	// GET /roles - public endpoint describing the hierarchy, no authn
	r.Mux.Handle("GET /v1/roles",
		httpx.Chain(RolesHandler(),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
