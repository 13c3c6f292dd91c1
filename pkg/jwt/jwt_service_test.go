package jwt

import (
	"Go-Voting-Backend/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateTokenUser("3f2a9c1e-77b4-4d0e-9a51-0c8e2b6f4d10", domain.RoleUser)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	require.Equal(t, "3f2a9c1e-77b4-4d0e-9a51-0c8e2b6f4d10", id)
	require.Equal(t, domain.RoleUser, role)
}

func TestTokenRejections(t *testing.T) {
	svc := NewJWTService("test-secret")

	other, err := NewJWTService("other-secret").GenerateTokenUser("u1", domain.RoleUser)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(other)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired := &jwtService{secretKey: "test-secret", issuer: "VOTING", ttl: -time.Minute}
	token, err := expired.GenerateTokenUser("u1", domain.RoleUser)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwtUserClaim{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(unsigned)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = svc.GetUserIDByToken("garbage")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}
