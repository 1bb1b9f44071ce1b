package proxy

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Key generates a unique identifier for the connection parameters.
// The display name is excluded so renamed duplicates collapse.
func (s *Shadowsocks) Key() string {
	parts := []string{
		s.Protocol(),
		strings.ToLower(s.Server),
		strconv.Itoa(s.Port),
		strings.ToLower(s.Cipher),
		s.Password,
		s.Plugin,
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}
