package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// Operator tokens are issued by the school service's auth endpoint and
// verified here with the shared signing key; this API never stores credentials.

var contextTokenKey = "operatorToken"

// Claims represents the operator authorization claims transmitted via a JWT.
// Name and Role stamp the actor on mark operations; they are passed explicitly
// into the attendance core, never read from ambient state inside it.
type Claims struct {
	jwt.StandardClaims
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

func newAppJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// OperatorClaims builds claims for an operator; used by tests and tooling.
func OperatorClaims(conf *core.Config, subject, name, role string, isAdmin bool) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   subject,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:    name,
		Role:    role,
		IsAdmin: isAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the operator Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(conf.SecretKey)
	return ss, errors.Wrap(err, "signing token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
