package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/httpx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/ticketcheater/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	db    Pinger
	cache Pinger

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	Authenticator *service.Authenticator
	TokenService  *service.TokenService
	UserService   *service.UserService
	GameService   *service.GameService
}

func NewRouter(buildVersion string, db, cache Pinger, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		cache:        cache,
		Gatherer:     prometheus.DefaultGatherer,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerGames()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Ticketcheater API
//	@version		0.1.0
//	@description	Sports ticketing backend. Sessions use a short lived HS256 access token and a
//	@description	long lived refresh token; only the latest refresh token per user is accepted.
//	@description
//	@description	Every response is wrapped as {"resultCode": "...", "result": ...}.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/ticketcheater
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService, TokenService: r.TokenService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /users/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Reissue accepts an expired access token; the refresh token decides.
	r.Mux.Handle("POST /users/reissue",
		httpx.Chain(http.HandlerFunc(h.HandleReissue),
			AuthnAllowExpiredMiddleware(r.Authenticator),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /users/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.Authenticator),
			RequireCapability(domain.CapProfile),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerGames() {
	h := &GamesHandler{GameService: r.GameService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			AuthnMiddleware(r.Authenticator),
			RequireCapability(domain.CapGamesRead),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /games", secured(h.HandleList))
	r.Mux.Handle("GET /games/{category}", secured(h.HandleListByCategory))
}

func (r *Router) registerAdmin() {
	h := &GamesHandler{GameService: r.GameService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			AuthnMiddleware(r.Authenticator),
			RequireCapability(domain.CapGamesWrite),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /admin/games", secured(h.HandleCreate))
	r.Mux.Handle("PUT /admin/games/{id}", secured(h.HandleUpdate))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
}
