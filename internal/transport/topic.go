package transport

import (
	"errors"
	"strings"
)

var (
	// ErrBadTopic indicates a topic name that fails validation.
	ErrBadTopic = errors.New("transport: invalid topic name")

	// ErrNoTopic indicates that no candidate topic was valid.
	ErrNoTopic = errors.New("transport: no valid topic among candidates")
)

// IsValidTopic reports whether topic is usable: non-empty printable ASCII
// with no whitespace, no empty path segments, and no reserved characters.
func IsValidTopic(topic string) bool {
	if topic == "" {
		return false
	}
	if strings.Contains(topic, "//") {
		return false
	}
	for _, r := range topic {
		if r <= ' ' || r > '~' {
			return false
		}
		if r == '@' || r == '~' {
			return false
		}
	}
	return true
}

// ValidTopic returns the first valid candidate. Configuration-supplied
// names are tried before derived defaults, so callers list them first.
func ValidTopic(candidates []string) (string, error) {
	for _, c := range candidates {
		if IsValidTopic(c) {
			return c, nil
		}
	}
	return "", ErrNoTopic
}
