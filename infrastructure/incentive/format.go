package incentive

import (
	"math"
	"strconv"
	"strings"
)

// FormatINR groups an integer the Indian way: last three digits, then pairs (12,34,567).
func FormatINR(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	out := groupIndian(strconv.FormatInt(n, 10))
	if neg {
		return "-" + out
	}
	return out
}

// FormatINRDecimal rounds to two decimals, drops trailing zeros and groups the integer part.
func FormatINRDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*100) / 100
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := groupIndian(whole)
	if frac != "" {
		out += "." + frac
	}
	if neg && out != "0" {
		return "-" + out
	}
	return out
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
