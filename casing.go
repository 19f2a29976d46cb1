package portal

import "strings"

// Attribute name segments are kebab-case; accessor and parameter names are
// camelCase. These two helpers are the entire conversion surface.

// lowerCamel converts "user-id" or "user_id" to "userId".
func lowerCamel(s string) string {
	parts := splitWords(s)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

// upperCamel converts "user-id" to "UserId".
func upperCamel(s string) string {
	var b strings.Builder
	for _, p := range splitWords(s) {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
