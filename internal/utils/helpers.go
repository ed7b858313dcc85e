package utils

import "strings"

// NormalizeAgencyType lowercases and trims an agency type so rows written
// from different clients compare equal.
func NormalizeAgencyType(agencyType string) string {
	return strings.ToLower(strings.TrimSpace(agencyType))
}
