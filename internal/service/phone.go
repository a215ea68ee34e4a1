package service

import "strings"

// NormalizePhone strips everything but digits from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneVariants generates candidate forms of a phone number for directory
// probing, in precedence order: digits as-is, last 10 digits, US country
// code prefixed, and "+"-prefixed forms. Duplicates are removed while
// preserving order.
func PhoneVariants(phone string) []string {
	digits := NormalizePhone(phone)
	if digits == "" {
		return nil
	}

	variants := []string{digits}

	if len(digits) > 10 {
		variants = append(variants, digits[len(digits)-10:])
	}
	if len(digits) == 10 {
		variants = append(variants, "1"+digits)
	}

	variants = append(variants, "+"+digits)
	if len(digits) == 10 {
		variants = append(variants, "+1"+digits)
	}

	seen := make(map[string]struct{}, len(variants))
	unique := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// trailingDigits returns the last n digits of a variant, ignoring any
// non-digit prefix such as "+".
func trailingDigits(variant string, n int) string {
	digits := NormalizePhone(variant)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
