package bithumb

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignHeaders(t *testing.T) {
	params := url.Values{}
	params.Set("order_currency", "BTC")
	params.Set("payment_currency", "KRW")
	params.Set("nonce", "1700000000000")

	h := sign("my-key", "my-secret", "/info/balance", params, "1700000000000")

	assert.Equal(t, "my-key", h.Get("Api-Key"))
	assert.Equal(t, "1700000000000", h.Get("Api-Nonce"))
	assert.Equal(t, "2", h.Get("api-client-type"))
	assert.Equal(t, "application/x-www-form-urlencoded", h.Get("Content-Type"))

	// Fixed vector: HMAC-SHA512("my-secret",
	// "/info/balance;nonce=1700000000000&order_currency=BTC&payment_currency=KRW;1700000000000"),
	// hex digest wrapped in base64.
	assert.Equal(t,
		"ZDFmMzQyNmM5MzA3MTAyMjBlYjU0Njk3N2UwNThmZjZlMzJlZWI4NGVlMGZhYzkyNDFiNDM1MzFlNGQ4ZjgxNmE5YTljYjNhYjNmYzA0ZDVkYThmYzBhZjBmMDQ1YTkzZTM4Y2MxOWVjNGI1M2EyM2JkYjg4Y2IzNGM3ZDMwMWE=",
		h.Get("Api-Sign"))

	// base64 wrapping of a hex digest: decoding must yield exactly 128
	// lowercase hex characters.
	raw, err := base64.StdEncoding.DecodeString(h.Get("Api-Sign"))
	require.NoError(t, err)
	require.Len(t, raw, 128)
	_, err = hex.DecodeString(string(raw))
	assert.NoError(t, err)
}

func TestSignDeterministic(t *testing.T) {
	params := url.Values{}
	params.Set("currency", "BTC")
	params.Set("nonce", "42")

	a := sign("k", "s", "/info/balance", params, "42")
	b := sign("k", "s", "/info/balance", params, "42")
	assert.Equal(t, a.Get("Api-Sign"), b.Get("Api-Sign"))
}

func TestSignVariesWithInputs(t *testing.T) {
	params := url.Values{}
	params.Set("currency", "BTC")
	params.Set("nonce", "42")
	base := sign("k", "s", "/info/balance", params, "42").Get("Api-Sign")

	assert.NotEqual(t, base, sign("k", "other", "/info/balance", params, "42").Get("Api-Sign"))
	assert.NotEqual(t, base, sign("k", "s", "/trade/place", params, "42").Get("Api-Sign"))
	assert.NotEqual(t, base, sign("k", "s", "/info/balance", params, "43").Get("Api-Sign"))

	changed := url.Values{}
	changed.Set("currency", "ETH")
	changed.Set("nonce", "42")
	assert.NotEqual(t, base, sign("k", "s", "/info/balance", changed, "42").Get("Api-Sign"))
}
