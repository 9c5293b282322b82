package payform

import "strings"

// DigitsOnly strips every non-digit rune from value.
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups card digits by 4, capped at 19 digits.
// Reformatting already-formatted input yields the same string.
func FormatCardNumber(value string) string {
	digits := DigitsOnly(value)
	if len(digits) > 19 {
		digits = digits[:19]
	}
	var groups []string
	for len(digits) > 4 {
		groups = append(groups, digits[:4])
		digits = digits[4:]
	}
	if digits != "" {
		groups = append(groups, digits)
	}
	return strings.Join(groups, " ")
}

// FormatExpiry inserts " / " once more than two digits are typed, capped at
// four digits.
func FormatExpiry(value string) string {
	digits := DigitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + " / " + digits[2:]
}

// FormatCVC keeps at most four digits.
func FormatCVC(value string) string {
	digits := DigitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}
