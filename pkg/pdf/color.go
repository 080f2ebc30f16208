package pdf

import (
	"strconv"
	"strings"
)

// RGB represents an RGB color
type RGB struct {
	R int
	G int
	B int
}

// ParseHexColor parses "#rrggbb" or "#rgb" (the leading '#' is optional).
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}

	return RGB{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, true
}

// colorOr parses hex, falling back when it is not a valid color
func colorOr(hex string, fallback RGB) RGB {
	if c, ok := ParseHexColor(hex); ok {
		return c
	}
	return fallback
}
