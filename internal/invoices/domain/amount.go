package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a money or quantity value kept exactly as it was supplied.
// It decodes from a JSON string, number or null.
type Amount string

// UnmarshalJSON accepts strings, numbers and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}

// Present reports whether the amount was supplied with a non-zero value.
// Display strings such as "₹0.00" count as absent.
func (a Amount) Present() bool {
	if strings.TrimSpace(string(a)) == "" {
		return false
	}
	if v, ok := a.Value(); ok {
		return v != 0
	}
	return true
}

// Value extracts the numeric part of the amount, ignoring currency symbols
// and thousands separators.
func (a Amount) Value() (float64, bool) {
	s := string(a)
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, false
	}
	if start > 0 && s[start-1] == '-' {
		start--
	}

	var b strings.Builder
	for i, r := range s[start:] {
		switch {
		case isDigit(r), r == '.', r == '-' && i == 0:
			b.WriteRune(r)
		case r == ',':
		default:
			return parseFinite(b.String())
		}
	}
	return parseFinite(b.String())
}

// FormatTaxAmount renders a raw tax amount with exactly two decimals.
// Anything that is not a finite number renders as "0.00".
func FormatTaxAmount(a Amount) string {
	v, ok := parseFinite(strings.TrimSpace(string(a)))
	if !ok {
		return "0.00"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
