package engine

import (
	"strconv"
	"strings"
)

// ParseFlex converts user-entered numeric text to a float64, tolerating the
// formats the dashboard forms produce: currency prefixes ("R$ 1.234,56"),
// Brazilian comma decimals with dot thousands separators, plain dot decimals,
// and surrounding whitespace. Anything unparseable yields 0 — the solver
// treats a zero as "not filled in yet", never as an error.
func ParseFlex(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	// "1.234,56" -> "1234.56"; a lone comma is a decimal separator.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
