package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
)

const ctxCallerKey = "caller"

var ErrUnknownSubject = errors.New("unknown subject")

// Directory resolves the current role/department of an identity.
// It returns ErrUnknownSubject when the identity or its profile is gone.
type Directory interface {
	Caller(ctx context.Context, identityID string) (domain.Caller, error)
}

// RequireAuth: Authorization: Bearer <token> を検証し、ロール・部署はプロフィールから引き直して context に詰める
func RequireAuth(iss *Issuer, dir Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apierr.Abort(c, apierr.Unauthenticated("missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierr.Abort(c, apierr.Unauthenticated("invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			apierr.Abort(c, apierr.Unauthenticated("empty token"))
			return
		}

		claims, err := iss.Parse(tokenStr)
		if err != nil {
			apierr.Abort(c, apierr.Unauthenticated("invalid or expired token"))
			return
		}

		caller, err := dir.Caller(c.Request.Context(), claims.Subject)
		if errors.Is(err, ErrUnknownSubject) {
			apierr.Abort(c, apierr.Unauthenticated("unknown user"))
			return
		}
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		SetCaller(c, caller)
		c.Next()
	}
}

// RequireRole: RequireAuth の後段に置く
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			apierr.Abort(c, apierr.Unauthenticated("missing session"))
			return
		}
		if _, ok := allowed[caller.Role]; !ok {
			apierr.Abort(c, apierr.Forbidden("forbidden for role "+caller.Role.String()))
			return
		}
		c.Next()
	}
}

// SetCaller stores the authenticated caller on the request context.
func SetCaller(c *gin.Context, caller domain.Caller) {
	c.Set(ctxCallerKey, caller)
}

func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(ctxCallerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
