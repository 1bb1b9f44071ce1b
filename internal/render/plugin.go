package render

import (
	"fmt"
	"strings"
)

// PluginTokenError reports a plugin token with no '=' separator.
type PluginTokenError struct {
	Token string
}

func (e *PluginTokenError) Error() string {
	return fmt.Sprintf("malformed plugin token %q: missing '='", e.Token)
}

// Option is one key/value pair of a plugin descriptor. Order is preserved and
// duplicate keys are kept.
type Option struct {
	Key   string
	Value string
}

// PluginOptions splits "k1=v1;k2=v2" on ';' and each token on its first '='.
// A token without '=' becomes a key with an empty value and is reported.
// Empty tokens are ignored.
func PluginOptions(plugin string) ([]Option, []error) {
	if plugin == "" {
		return nil, nil
	}

	var opts []Option
	var diags []error
	for _, token := range strings.Split(plugin, ";") {
		if token == "" {
			continue
		}
		k, v, ok := strings.Cut(token, "=")
		if !ok {
			diags = append(diags, &PluginTokenError{Token: token})
		}
		opts = append(opts, Option{Key: k, Value: v})
	}
	return opts, diags
}
