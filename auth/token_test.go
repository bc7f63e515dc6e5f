package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var signingKey = []byte("publisher_signing_key_for_tests")

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(signingKey, "dashboard", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(signingKey, token)
	req.NoError(err)
	req.Equal("dashboard", claims.Publisher)
	req.Equal("dashboard", claims.Subject)
	req.Equal(issuer, claims.Issuer)
}

func TestValidateToken_Rejects(t *testing.T) {
	req := require.New(t)

	expired, err := GenerateToken(signingKey, "dashboard", -time.Minute)
	req.NoError(err)
	_, err = ValidateToken(signingKey, expired)
	req.Error(err)

	foreign, err := GenerateToken([]byte("another key"), "dashboard", time.Hour)
	req.NoError(err)
	_, err = ValidateToken(signingKey, foreign)
	req.Error(err)

	_, err = ValidateToken(signingKey, "not-a-jwt")
	req.Error(err)
}
