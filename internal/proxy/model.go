package proxy

// Entry is one decoded proxy descriptor. It is a closed set: every variant
// lives in this package and is handled by Parse and by the renderer's switch.
type Entry interface {
	// Protocol returns the type tag used in rendered configs ("ss", ...).
	Protocol() string
	// Key identifies the connection parameters, ignoring the display name.
	Key() string
	isEntry()
}

// Shadowsocks is a decoded ss:// link.
type Shadowsocks struct {
	Raw  string // the subscription line it came from
	Name string // fragment, may be empty or non-ASCII

	Server string
	Port   int

	Cipher   string
	Password string

	// Plugin is the raw query string, semicolon separated key=value tokens.
	// Empty means no plugin.
	Plugin string

	UDP bool
}

func (s *Shadowsocks) Protocol() string { return "ss" }

func (*Shadowsocks) isEntry() {}
