package sanitizer

import "strings"

// CleanStringSlice trims every element through clean, then drops empty and
// duplicate values while preserving order. A nil clean only trims.
func CleanStringSlice(slice []string, clean func(string) string) []string {
	if len(slice) == 0 {
		return nil
	}
	if clean == nil {
		clean = strings.TrimSpace
	}

	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		item = clean(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
