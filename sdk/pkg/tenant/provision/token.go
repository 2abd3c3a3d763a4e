package provision

import (
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/golang-jwt/jwt/v4"
)

// TokenIssuer signs the access token returned from a successful signup.
type TokenIssuer interface {
	Issue(restaurantID, email string) (string, error)
}

// JWTIssuer signs HS256 tokens with the configured secret.
type JWTIssuer struct {
	secret  []byte
	timeout time.Duration
}

func NewJWTIssuer(cfg config.JWT) *JWTIssuer {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(cfg.Secret), timeout: timeout}
}

func (i *JWTIssuer) Issue(restaurantID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"restaurantId": restaurantID,
		"email":        email,
		"iat":          now.Unix(),
		"exp":          now.Add(i.timeout).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
