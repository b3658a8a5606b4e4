package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/wedsite-backend/api/responses"
	pkgAuth "github.com/angelmondragon/wedsite-backend/pkg/auth"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
)

// Auth validates a planner bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParsePlannerToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithPlanner(r.Context(), claims.PlannerID.String(), claims.Email)
			if logg != nil {
				ctx = logg.WithPlannerID(ctx, claims.PlannerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
