package utils

import "strings"

// NormalizeEmail normalizes email addresses (lowercase and trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode canonicalizes a scanned or typed inventory code: non-breaking
// spaces become regular spaces (mobile keyboards insert them), then trim and
// uppercase.
func NormalizeCode(code string) string {
	code = strings.ReplaceAll(code, " ", " ")
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidEmail performs basic email validation
func IsValidEmail(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false
	}

	parts := strings.Split(normalized, "@")
	if len(parts) != 2 {
		return false
	}

	local, domain := parts[0], parts[1]
	return len(local) > 0 && len(domain) > 2 && strings.Contains(domain, ".")
}
