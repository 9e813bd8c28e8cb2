package redact

import "encoding/base64"

// Encode maps raw bytes to an identifier built only from A-Z, a-z, 0-9, '-' and '_'
// with no padding, so it can be used as-is in a CSS class or URL path segment.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
