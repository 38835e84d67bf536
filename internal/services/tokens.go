package services

import "strings"

// TokenizeVINs splits raw bulk-upload text into candidate VIN tokens.
// Tokens are separated by any run of commas or newline characters; each
// token is trimmed and upper-cased, empty tokens are discarded, and
// duplicates are dropped keeping the first occurrence. There is no header
// row and no quoting or escaping semantics.
func TokenizeVINs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		token := strings.ToUpper(strings.TrimSpace(field))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}

	return tokens
}
