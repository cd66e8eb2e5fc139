package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Sign computes the HMAC-SHA512 signature over the given params:
// drop vnp_SecureHash/vnp_SecureHashType and empty values, sort keys
// ascending, join as urlencode(k)=urlencode(v) pairs with '&', MAC the
// result and uppercase-hex encode it. Spaces encode as '+'.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, encode(k)+"="+encode(params[k]))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// Verify recomputes the signature over every parameter except the hash
// itself and compares in constant time.
func Verify(params map[string]string, secret string) bool {
	received := params["vnp_SecureHash"]
	if received == "" {
		return false
	}
	expected := Sign(params, secret)
	return hmac.Equal([]byte(strings.ToUpper(received)), []byte(expected))
}

// encode matches the reference implementation's urlencode: query escaping
// with spaces as '+'.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%20", "+")
}
