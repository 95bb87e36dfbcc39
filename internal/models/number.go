package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Number decodes JSON numbers that the API sometimes sends as strings
// ("150.00"). Empty strings and null decode to zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 { return float64(n) }
