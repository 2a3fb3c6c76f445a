package normalization

import (
	"encoding/json"
	"strings"
)

// ParseInputString canonicalizes lookup fields (emails, roles,
// statuses, search terms): trimmed and lowercased.
func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// TrimInput cleans display-facing fields (titles, names, ordinance and
// case numbers) without case-folding, so records keep the casing they
// were entered with. Ordering and matching stay case-insensitive at
// compare time.
func TrimInput(input string) string {
	return strings.TrimSpace(input)
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*input))
	return &normalized
}

// CoerceStringSlice accepts the duck-typed category payloads the mobile
// client sends (a bare string, a JSON-encoded array, or a comma list)
// and always yields a cleaned []string.
func CoerceStringSlice(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return cleanSlice(arr)
		}
	}
	if strings.Contains(trimmed, ",") {
		return cleanSlice(strings.Split(trimmed, ","))
	}
	return cleanSlice([]string{trimmed})
}

func cleanSlice(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
