package engine

import "testing"

func TestParseFlex(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"2.05", 2.05},
		{"2,05", 2.05},
		{"1.234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"R$1500", 1500},
		{"$ 99,9", 99.9},
		{"-12,5", -12.5},
		{"abc", 0},
		{"12abc", 0},
		{"100", 100},
	}
	for _, c := range cases {
		if got := ParseFlex(c.in); got != c.want {
			t.Errorf("ParseFlex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
