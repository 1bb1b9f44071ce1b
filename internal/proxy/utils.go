package proxy

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64 decodes unpadded base64, URL-safe alphabet first and then the
// standard one. Trailing padding is tolerated.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}

	b, stdErr := base64.RawStdEncoding.DecodeString(s)
	if stdErr == nil {
		return b, nil
	}

	return nil, err
}

// EncodeBase64 is the encoding ToURI uses for userinfo.
func EncodeBase64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
