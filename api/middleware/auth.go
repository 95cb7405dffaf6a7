package middleware

import (
	"net/http"
	"strings"

	"github.com/firmarollers/b2b-backend/api/responses"
	pkgauth "github.com/firmarollers/b2b-backend/pkg/auth"
	"github.com/firmarollers/b2b-backend/pkg/config"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

// Auth validates a bearer token minted by the identity provider and seeds
// the request context with the claims. Tokens are stateless; there is no
// server-side session to check.
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

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			userID, err := claims.AuthUserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid subject"))
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			ctx = WithRole(ctx, claims.Role().String())
			if claims.AppMetadata.CustomerID != nil {
				ctx = WithCustomerID(ctx, claims.AppMetadata.CustomerID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"user_id":    userID.String(),
					"actor_role": claims.Role().String(),
				}
				if claims.AppMetadata.CustomerID != nil {
					fields["customer_id"] = claims.AppMetadata.CustomerID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
