package bithumb

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"net/url"
)

// sign builds the private-API headers. The signature is HMAC-SHA512 over
// "endpoint;urlencoded-params;nonce", hex-encoded, then that hex string is
// Base64-encoded. The nonce must already be present in params.
func sign(apiKey, apiSecret, endpoint string, params url.Values, nonce string) http.Header {
	query := params.Encode()
	payload := endpoint + ";" + query + ";" + nonce

	mac := hmac.New(sha512.New, []byte(apiSecret))
	mac.Write([]byte(payload))
	hexDigest := hex.EncodeToString(mac.Sum(nil))
	signature := base64.StdEncoding.EncodeToString([]byte(hexDigest))

	h := http.Header{}
	h.Set("accept", "application/json")
	h.Set("content-type", "application/x-www-form-urlencoded")
	h.Set("api-client-type", "2")
	h.Set("Api-Key", apiKey)
	h.Set("Api-Nonce", nonce)
	h.Set("Api-Sign", signature)
	return h
}
