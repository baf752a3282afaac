package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"attendance-backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims は JWT ペイロード。フロントが userId / userName / role / department を直接読む。
type Claims struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  domain.Clock
}

func NewIssuer(secret []byte, ttl time.Duration, clock domain.Clock) *Issuer {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Issuer{secret: secret, ttl: ttl, clock: clock}
}

func (i *Issuer) Issue(c domain.Caller) (string, error) {
	now := i.clock.Now()
	claims := Claims{
		UserID:     c.IdentityID,
		UserName:   c.UserName,
		Email:      c.Email,
		Role:       c.Role.String(),
		Department: c.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.IdentityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies signature and expiry. Only HS256 is accepted.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Subject != claims.UserID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
