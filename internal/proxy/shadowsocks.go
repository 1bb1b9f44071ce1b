package proxy

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	errNoUserinfo   = errors.New("missing userinfo")
	errNoSeparator  = errors.New("missing ':' between cipher and password")
	errEmptyCipher  = errors.New("empty cipher")
	errInvalidUTF8  = errors.New("userinfo is not valid utf-8")
	errPortNotInt   = errors.New("port is not a number")
	errPortOutRange = errors.New("port out of range")
)

// parseShadowsocks handles SIP002 links:
// ss://base64url(cipher:password)@host:port[/?plugin]#name
func parseShadowsocks(raw string, u *url.URL) (*Shadowsocks, error) {
	if u.User == nil || u.User.Username() == "" {
		return nil, skip(ReasonBadCredentials, errNoUserinfo)
	}

	cipher, password, err := decodeCredentials(u.User.Username())
	if err != nil {
		return nil, skip(ReasonBadCredentials, err)
	}

	host := u.Hostname()
	if host == "" {
		return nil, skip(ReasonMissingHost, nil)
	}

	portStr := u.Port()
	if portStr == "" {
		return nil, skip(ReasonMissingPort, nil)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, skip(ReasonBadPort, errPortNotInt)
	}
	if port < 1 || port > 65535 {
		return nil, skip(ReasonBadPort, fmt.Errorf("%w: %d", errPortOutRange, port))
	}

	return &Shadowsocks{
		Raw:      raw,
		Name:     u.Fragment,
		Server:   host,
		Port:     port,
		Cipher:   cipher,
		Password: password,
		Plugin:   u.RawQuery,
		UDP:      true,
	}, nil
}

func decodeCredentials(userinfo string) (string, string, error) {
	b, err := DecodeBase64(userinfo)
	if err != nil {
		return "", "", fmt.Errorf("userinfo base64: %w", err)
	}
	if !utf8.Valid(b) {
		return "", "", errInvalidUTF8
	}

	cipher, password, ok := strings.Cut(string(b), ":")
	if !ok {
		return "", "", errNoSeparator
	}
	if cipher == "" {
		return "", "", errEmptyCipher
	}
	return cipher, password, nil
}

// ToURI re-encodes the entry as a SIP002 link with unpadded URL-safe userinfo.
func (s *Shadowsocks) ToURI() string {
	u := url.URL{
		Scheme:   "ss",
		User:     url.User(EncodeBase64([]byte(s.Cipher + ":" + s.Password))),
		Host:     net.JoinHostPort(s.Server, strconv.Itoa(s.Port)),
		RawQuery: s.Plugin,
		Fragment: s.Name,
	}
	if s.Plugin != "" {
		u.Path = "/"
	}
	return u.String()
}
