package utils

import "strings"

// IsValidEmail checks if the email string contains an "@" symbol.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// NormalizeCNPJ strips formatting from a CNPJ and validates its check
// digits. Returns the bare 14-digit form.
func NormalizeCNPJ(cnpj string) (string, bool) {
	digits := make([]byte, 0, 14)
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
	}
	if len(digits) != 14 {
		return "", false
	}

	// All-equal sequences like 00000000000000 pass the checksum but are not
	// valid registry numbers.
	allEqual := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return "", false
	}

	if digits[12] != cnpjCheckDigit(digits[:12]) || digits[13] != cnpjCheckDigit(digits[:13]) {
		return "", false
	}
	return string(digits), true
}

// cnpjCheckDigit computes the mod-11 check digit over the given prefix.
func cnpjCheckDigit(digits []byte) byte {
	weight := 2
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}
