package auth

import (
	"context"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/weighin-league/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/Black-And-White-Club/weighin-league/config"
	"golang.org/x/time/rate"
)

// Module holds the HTTP guards shared by every API route. Tokens are minted by
// cmd/token; the API only verifies them.
type Module struct {
	Provider     authjwt.Provider
	Authenticate func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
	RateLimit    func(http.Handler) http.Handler
	CORS         func(http.Handler) http.Handler
}

func NewModule(ctx context.Context, cfg *config.Config, obs observability.Observability) *Module {
	obs.Logger.InfoContext(ctx, "Initializing auth module")

	provider := authjwt.NewProvider(cfg.JWT.Secret)
	limiter := authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)

	return &Module{
		Provider:     provider,
		Authenticate: authhandlers.BearerAuth(provider),
		RequireAdmin: authhandlers.RequireAdmin,
		RateLimit:    authhandlers.RateLimitMiddleware(limiter),
		CORS:         authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins),
	}
}
