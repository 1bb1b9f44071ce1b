package subscription

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("decoded subscription is not valid utf-8")

// DecodeError means the whole subscription body is unusable.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode subscription: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode turns a base64 subscription body (standard, padded alphabet) into its
// lines, in order. Blank lines are kept; they are rejected later by the URI
// dispatcher like any other line without a supported scheme.
func Decode(body string) ([]string, error) {
	compact := stripWhitespace(body)

	b, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if !utf8.Valid(b) {
		return nil, &DecodeError{Err: errInvalidUTF8}
	}

	return SplitLines(string(b)), nil
}

// SplitLines splits on '\n', drops a trailing '\r' from each line and does not
// report an empty line after a final terminator.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Encode is the inverse of Decode.
func Encode(lines []string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(lines, "\n")))
}

// Providers commonly wrap the payload at 76 columns.
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
