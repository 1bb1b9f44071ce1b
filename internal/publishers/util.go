package publishers

import "strings"

// Payload joins rendered fragments into the text that gets published.
// With wrap, the items are nested under a top-level proxies key so the result
// is a standalone Clash document.
func Payload(fragments []string, wrap bool) string {
	var sb strings.Builder
	if wrap {
		sb.WriteString("proxies:\n")
	}
	for _, f := range fragments {
		if wrap {
			sb.WriteString("  ")
		}
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	return sb.String()
}
