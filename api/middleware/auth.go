package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/amirdashti/darchin-backend/api/responses"
	pkgauth "github.com/amirdashti/darchin-backend/pkg/auth"
	"github.com/amirdashti/darchin-backend/pkg/config"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

const ctxTokenExpiry contextKey = "token_expiry"

// TokenBlacklist reports whether a token id was revoked by logout.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// TokenExpiryFromContext returns the expiry of the presented access token.
func TokenExpiryFromContext(ctx context.Context) time.Time {
	if ctx == nil {
		return time.Time{}
	}
	if v, ok := ctx.Value(ctxTokenExpiry).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, blacklist TokenBlacklist, logg *logger.Logger) func(http.Handler) http.Handler {
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

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token id"))
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.IsBlacklisted(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxPhone, claims.Phone)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			ctx = context.WithValue(ctx, ctxJTI, claims.ID)
			if claims.ExpiresAt != nil {
				ctx = context.WithValue(ctx, ctxTokenExpiry, claims.ExpiresAt.Time)
			}

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID.String(),
					"role":    string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
