package middleware

import (
	"context"
	"net/http"
	"strings"

	"shiftpay/internal/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

type UserContext struct {
	UserID  string
	StaffID string
	Role    string
}

func (u UserContext) CanApprove() bool {
	return u.Role == auth.RoleManager || u.Role == auth.RoleAdmin
}

// Auth parses a bearer token when one is present. Requests without a valid
// token pass through anonymous; route-level guards decide what needs one.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, UserContext{
				UserID:  claims.UserID,
				StaffID: claims.StaffID,
				Role:    claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(UserContext)
	return user, ok
}
