package proxy

import (
	"errors"
	"testing"
)

func mustShadowsocks(t *testing.T, line string) *Shadowsocks {
	t.Helper()
	e, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", line, err)
	}
	ss, ok := e.(*Shadowsocks)
	if !ok {
		t.Fatalf("Parse(%q) returned %T, want *Shadowsocks", line, e)
	}
	return ss
}

func TestParse_Shadowsocks(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Shadowsocks
	}{
		{
			name: "basic",
			line: "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#HK%2001",
			want: Shadowsocks{Name: "HK 01", Server: "example.com", Port: 8388, Cipher: "aes-256-gcm", Password: "secret"},
		},
		{
			name: "password keeps later colons",
			line: "ss://Y2hhY2hhMjAtaWV0Zi1wb2x5MTMwNTpwQHNzOncwcmQ@1.2.3.4:443",
			want: Shadowsocks{Server: "1.2.3.4", Port: 443, Cipher: "chacha20-ietf-poly1305", Password: "p@ss:w0rd"},
		},
		{
			name: "empty password",
			line: "ss://YWVzLTEyOC1nY206@example.com:1#x",
			want: Shadowsocks{Name: "x", Server: "example.com", Port: 1, Cipher: "aes-128-gcm", Password: ""},
		},
		{
			name: "percent encoded plugin query kept verbatim",
			line: "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388/?plugin=obfs-local%3Bobfs%3Dhttp%3Bobfs-host%3Dexample.com#obfs",
			want: Shadowsocks{
				Name: "obfs", Server: "example.com", Port: 8388, Cipher: "aes-256-gcm", Password: "secret",
				Plugin: "plugin=obfs-local;obfs=http;obfs-host=example.com",
			},
		},
		{
			name: "non-ascii name",
			line: "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#%E9%A6%99%E6%B8%AF",
			want: Shadowsocks{Name: "香港", Server: "example.com", Port: 8388, Cipher: "aes-256-gcm", Password: "secret"},
		},
		{
			name: "ipv6 host",
			line: "ss://YWVzLTI1Ni1nY206c2VjcmV0@[2001:db8::1]:8388",
			want: Shadowsocks{Server: "2001:db8::1", Port: 8388, Cipher: "aes-256-gcm", Password: "secret"},
		},
		{
			name: "standard alphabet with padding",
			line: "ss://YWVzLTI1Ni1nY2065a+G56CB@example.com:8388",
			want: Shadowsocks{Server: "example.com", Port: 8388, Cipher: "aes-256-gcm", Password: "密码"},
		},
		{
			name: "upper case scheme and surrounding spaces",
			line: "  SS://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388  ",
			want: Shadowsocks{Server: "example.com", Port: 8388, Cipher: "aes-256-gcm", Password: "secret"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustShadowsocks(t, tt.line)
			tt.want.Raw = tt.line
			tt.want.UDP = true
			if *got != tt.want {
				t.Fatalf("got=%+v\nwant=%+v", *got, tt.want)
			}
			if got.Protocol() != "ss" {
				t.Fatalf("protocol=%q, want=ss", got.Protocol())
			}
		})
	}
}

func TestParse_Skips(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason Reason
	}{
		{"blank line", "", ReasonUnsupported},
		{"vmess", "vmess://eyJhZGQiOiJleGFtcGxlLmNvbSJ9", ReasonUnsupported},
		{"trojan", "trojan://pw@example.com:443", ReasonUnsupported},
		{"bad percent escape", "ss://YWVz%zz@example.com:8388", ReasonBadURI},
		{"non numeric port", "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:http", ReasonBadURI},
		{"missing userinfo", "ss://example.com:8388", ReasonBadCredentials},
		{"userinfo not base64", "ss://!!!!@example.com:8388", ReasonBadCredentials},
		{"no colon in credentials", "ss://bm9jb2xvbg==@example.com:8388", ReasonBadCredentials},
		{"empty cipher", "ss://OnB3@example.com:8388", ReasonBadCredentials},
		{"credentials not utf8", "ss://__46_Q@example.com:8388", ReasonBadCredentials},
		{"missing host", "ss://YWVzLTI1Ni1nY206c2VjcmV0@:8388", ReasonMissingHost},
		{"missing port", "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com#x", ReasonMissingPort},
		{"port zero", "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:0", ReasonBadPort},
		{"port too large", "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:65536", ReasonBadPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.line)
			if e != nil {
				t.Fatalf("expected no entry, got %+v", e)
			}
			var se *SkipError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SkipError, got %T: %v", err, err)
			}
			if se.Reason != tt.reason {
				t.Fatalf("reason=%q, want=%q (err=%v)", se.Reason, tt.reason, err)
			}
		})
	}
}

func TestParse_SkipReturnsNilEntry(t *testing.T) {
	lines := []string{
		"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com#noport",
		"ss://example.com:8388",
		"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:0",
	}
	for _, line := range lines {
		e, err := Parse(line)
		if err == nil {
			t.Fatalf("Parse(%q) expected a skip", line)
		}
		if e != nil {
			t.Fatalf("Parse(%q) returned non-nil entry %T alongside %v", line, e, err)
		}
	}
}

func TestParse_NamePercentHandling(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#100%25off", "100%off"},
		{"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#50%", "50%"},
		{"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#a%zzb", "a%zzb"},
		{"ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388%23encoded%20hash", "encoded hash"},
	}
	for _, tt := range tests {
		got := mustShadowsocks(t, tt.line)
		if got.Name != tt.want {
			t.Fatalf("Parse(%q) name=%q, want=%q", tt.line, got.Name, tt.want)
		}
		if got.Port != 8388 {
			t.Fatalf("Parse(%q) port=%d, want=8388", tt.line, got.Port)
		}
	}
}

func TestParse_SkipMessages(t *testing.T) {
	_, err := Parse("vmess://abc")
	if err == nil || err.Error() != `unsupported protocol: scheme "vmess"` {
		t.Fatalf("err=%v", err)
	}

	_, err = Parse("ss://bm9jb2xvbg@example.com:8388")
	if !errors.Is(err, errNoSeparator) {
		t.Fatalf("err=%v, want errNoSeparator", err)
	}

	_, err = Parse("ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com")
	if err == nil || err.Error() != "missing port" {
		t.Fatalf("err=%v, want bare reason", err)
	}
}

func TestShadowsocks_CredentialRoundTrip(t *testing.T) {
	pairs := []struct{ cipher, password string }{
		{"aes-256-gcm", "secret"},
		{"chacha20-ietf-poly1305", "p@ss:w0rd"},
		{"aes-128-gcm", ""},
		{"2022-blake3-aes-128-gcm", "bXlrZXk=/+?#%41"},
		{"xchacha20-ietf-poly1305", "密码 with spaces"},
	}
	for _, p := range pairs {
		line := "ss://" + EncodeBase64([]byte(p.cipher+":"+p.password)) + "@example.com:8388#rt"
		got := mustShadowsocks(t, line)
		if got.Cipher != p.cipher || got.Password != p.password {
			t.Fatalf("cipher/password=%q/%q, want %q/%q", got.Cipher, got.Password, p.cipher, p.password)
		}
	}
}

func TestShadowsocks_ToURIRoundTrip(t *testing.T) {
	orig := &Shadowsocks{
		Name:     "Tokyo 01",
		Server:   "2001:db8::2",
		Port:     8443,
		Cipher:   "chacha20-ietf-poly1305",
		Password: "p@ss:w0rd",
		Plugin:   "obfs-local;obfs=http;obfs-host=cdn.example.com",
		UDP:      true,
	}

	uri := orig.ToURI()
	got := mustShadowsocks(t, uri)
	got.Raw = ""
	if *got != *orig {
		t.Fatalf("uri=%s\ngot=%+v\nwant=%+v", uri, *got, *orig)
	}
}

func TestShadowsocks_Key(t *testing.T) {
	a := mustShadowsocks(t, "ss://YWVzLTI1Ni1nY206c2VjcmV0@Example.com:8388#one")
	b := mustShadowsocks(t, "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8388#two")
	c := mustShadowsocks(t, "ss://YWVzLTI1Ni1nY206c2VjcmV0@example.com:8389#one")

	if a.Key() != b.Key() {
		t.Fatalf("renamed duplicate should share a key")
	}
	if a.Key() == c.Key() {
		t.Fatalf("different port should change the key")
	}
	if len(a.Key()) != 64 {
		t.Fatalf("key=%q, want hex sha256", a.Key())
	}
}

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"YWVzLTI1Ni1nY206c2VjcmV0", "aes-256-gcm:secret", false},
		{"bm9jb2xvbg==", "nocolon", false},
		{"bm9jb2xvbg", "nocolon", false},
		{"YWVzLTI1Ni1nY2065a-G56CB", "aes-256-gcm:密码", false},
		{"YWVzLTI1Ni1nY2065a+G56CB", "aes-256-gcm:密码", false},
		{"!!!!", "", true},
	}
	for _, tt := range tests {
		got, err := DecodeBase64(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("DecodeBase64(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if string(got) != tt.want {
			t.Fatalf("DecodeBase64(%q)=%q, want=%q", tt.in, got, tt.want)
		}
	}
}
