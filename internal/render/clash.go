package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"subclash/internal/proxy"

	"gopkg.in/yaml.v3"
)

type Options struct {
	// RejectMalformedPlugin fails the fragment on a plugin token without '='
	// instead of rendering the token with an empty value.
	RejectMalformedPlugin bool
}

// Result is the outcome of rendering one entry.
type Result struct {
	Entry       proxy.Entry
	Text        string
	Diagnostics []error
	Err         error
}

// Fragment renders one entry as a single-line Clash proxies item, e.g.
//
//	- {name: hk, type: ss, server: example.com, port: 8388, cipher: aes-256-gcm, password: secret, udp: true}
//
// Diagnostics are non-fatal problems found while rendering; err means no
// fragment was produced.
func Fragment(e proxy.Entry, opts Options) (string, []error, error) {
	var node *yaml.Node
	var diags []error

	switch v := e.(type) {
	case *proxy.Shadowsocks:
		var err error
		node, diags, err = shadowsocksNode(v, opts)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, fmt.Errorf("no renderer for %T", e)
	}

	text, err := encodeItem(node)
	if err != nil {
		return "", nil, err
	}
	return text, diags, nil
}

func shadowsocksNode(s *proxy.Shadowsocks, opts Options) (*yaml.Node, []error, error) {
	m := flowMap()
	appendPair(m, "name", str(s.Name))
	appendPair(m, "type", str(s.Protocol()))
	appendPair(m, "server", str(s.Server))
	appendPair(m, "port", integer(s.Port))
	appendPair(m, "cipher", str(s.Cipher))
	appendPair(m, "password", str(s.Password))
	appendPair(m, "udp", boolean(s.UDP))

	if s.Plugin == "" {
		return m, nil, nil
	}

	pluginOpts, diags := PluginOptions(s.Plugin)
	if len(diags) > 0 && opts.RejectMalformedPlugin {
		return nil, nil, errors.Join(diags...)
	}

	// A repeated key keeps its first position and takes the last value, so the
	// mapping stays valid YAML.
	po := flowMap()
	index := make(map[string]int)
	for _, o := range pluginOpts {
		if i, ok := index[o.Key]; ok {
			po.Content[i+1].Value = o.Value
			continue
		}
		index[o.Key] = len(po.Content)
		appendPair(po, o.Key, str(o.Value))
	}
	appendPair(m, "plugin-opts", po)

	return m, diags, nil
}

func encodeItem(item *yaml.Node) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{item}}
	b, err := yaml.Marshal(seq)
	if err != nil {
		return "", fmt.Errorf("encode fragment: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func flowMap() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func integer(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolean(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}
