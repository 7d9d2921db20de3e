package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
	msgNotAdmin    = "Not authorized as an admin"
)

type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// UserFinder resolves the account a token was issued for.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Auth struct {
	tokens TokenParser
	users  UserFinder
}

func NewAuth(tokens TokenParser, users UserFinder) *Auth {
	return &Auth{tokens: tokens, users: users}
}

type tokenRejectedKey struct{}

// Authenticate attaches the caller to the request context when a valid token
// is present. Requests without a usable token pass through anonymously and
// RequireUser reports the rejected token.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromCtx(r.Context())
		anonymous := func() {
			ctx := context.WithValue(r.Context(), tokenRejectedKey{}, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		claims, err := a.tokens.Parse(tokenStr)
		if err != nil {
			log.Info("token rejected, continuing anonymously", zap.Error(err))
			anonymous()
			return
		}

		u, err := a.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, user.ErrUserNotFound) {
				log.Error("failed to resolve token user", zap.Error(err))
				utils.WriteJSONError(w, msgTokenFailed, http.StatusUnauthorized)
				return
			}
			log.Info("token user no longer exists, continuing anonymously", zap.String("user_id", claims.UserID.String()))
			anonymous()
			return
		}

		ctx := utils.SetUserContext(r.Context(), u.ID, u.Email, u.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			msg := msgNoToken
			if rejected, _ := r.Context().Value(tokenRejectedKey{}).(bool); rejected {
				msg = msgTokenFailed
			}
			utils.WriteJSONError(w, msg, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsAdmin(r.Context()) {
			utils.WriteJSONError(w, msgNotAdmin, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
