package stringsutil

import "strings"

// RemoveEmptyStrings drops empty and whitespace-only entries.
func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if strings.TrimSpace(s) != "" {
			result = append(result, s)
		}
	}

	return result
}

// SplitTrimmed splits s by sep, trims every part and drops the empty ones.
func SplitTrimmed(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return RemoveEmptyStrings(parts)
}
