package records

import (
	"strconv"
	"strings"
)

// ParseVolume parses the longest leading decimal number in s. Anything that
// does not start with a number, including the Empty marker, parses as 0.
func ParseVolume(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix returns the length of the [sign]digits[.digits][e[sign]digits]
// prefix of s, or 0 if s has no digits before any other character.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	// An exponent only counts when at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}

	// "1." is accepted by ParseFloat, "." alone was rejected above.
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
