// Package numerology reduces arbitrary text to a single-digit numerology key.
package numerology

import "strconv"

// Reduce strips every non-digit from s, sums the digits and keeps re-summing
// the decimal digits of the total until one digit remains. Input without any
// ASCII digit reduces to 0.
func Reduce(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			sum += int(c - '0')
		}
	}
	for sum > 9 {
		sum = digitSum(sum)
	}
	return sum
}

// Key returns Reduce(s) as the string used to look up numerology entries.
func Key(s string) string {
	return strconv.Itoa(Reduce(s))
}

// ValidKey reports whether k is a canonical key ("0" through "9").
func ValidKey(k string) bool {
	return len(k) == 1 && k[0] >= '0' && k[0] <= '9'
}

func digitSum(n int) int {
	s := 0
	for n > 0 {
		s += n % 10
		n /= 10
	}
	return s
}
