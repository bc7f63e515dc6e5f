package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "channel-gate"

// PublisherClaims defines the structure of the data stored inside a publisher JWT.
type PublisherClaims struct {
	Publisher string `json:"publisher"`
	jwt.RegisteredClaims
}

// GenerateToken creates a HS256 token allowing publisher to call the publish API.
func GenerateToken(key []byte, publisher string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &PublisherClaims{
		Publisher: publisher,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publisher,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ValidateToken parses and validates the signature, issuer and expiration of a publisher token.
func ValidateToken(key []byte, tokenString string) (*PublisherClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PublisherClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*PublisherClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
