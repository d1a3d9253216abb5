package upbit

import (
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseToken(t *testing.T, tok, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(tok, func(tk *jwt.Token) (any, error) {
		require.Equal(t, jwt.SigningMethodHS256.Alg(), tk.Method.Alg())
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestAuthTokenWithoutParams(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	tok, err := authToken("ak", "sk", url.Values{}, now)
	require.NoError(t, err)

	claims := parseToken(t, tok, "sk")
	assert.Equal(t, "ak", claims["access_key"])
	assert.Equal(t, float64(1700000000000), claims["timestamp"])
	assert.NotEmpty(t, claims["nonce"])
	_, has := claims["query_hash"]
	assert.False(t, has, "parameterless request must not carry a query hash")
}

func TestAuthTokenQueryHash(t *testing.T) {
	params := url.Values{}
	params.Set("market", "KRW-BTC")
	params.Set("state", "wait")

	tok, err := authToken("ak", "sk", params, time.Now())
	require.NoError(t, err)
	claims := parseToken(t, tok, "sk")

	sum := sha512.Sum512([]byte(params.Encode()))
	assert.Equal(t, hex.EncodeToString(sum[:]), claims["query_hash"])
	assert.Equal(t, "SHA512", claims["query_hash_alg"])
}

func TestAuthTokenNonceUnique(t *testing.T) {
	a, err := authToken("ak", "sk", url.Values{}, time.Now())
	require.NoError(t, err)
	b, err := authToken("ak", "sk", url.Values{}, time.Now())
	require.NoError(t, err)

	ca := parseToken(t, a, "sk")
	cb := parseToken(t, b, "sk")
	assert.NotEqual(t, ca["nonce"], cb["nonce"])
}

func TestAuthTokenRejectsWrongSecret(t *testing.T) {
	tok, err := authToken("ak", "sk", url.Values{}, time.Now())
	require.NoError(t, err)

	_, err = jwt.Parse(tok, func(tk *jwt.Token) (any, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}
