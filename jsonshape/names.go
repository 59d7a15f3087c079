package jsonshape

import "strings"

// SnakeCase converts a Go exported field name (UpperCamelCase) to
// snake_case by inserting '_' before each ASCII uppercase letter (other
// than the first) and lowercasing the result. Mirrors §4.5.2 candidate 2.
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LowerCamelCase converts an UpperCamelCase Go field name to the
// lowerCamelCase convention used for default JSON output keys: the first
// rune is lowercased, the rest is left untouched.
func LowerCamelCase(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}

// CamelCaseOfKey converts a JSON key that may use snake_case into
// camelCase by stripping underscores and upper-casing the character that
// followed each one. Mirrors §4.5.2 candidate 3 ("camelCase form of the
// JSON key").
func CamelCaseOfKey(key string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range key {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
			upperNext = false
			continue
		}
		upperNext = false
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveField finds the object member matching declared field name
// fieldName under the three-candidate policy of §4.5.2: exact match,
// snake_case-of-field match, or the JSON key's camelCase form matching
// the field name or its LowerCamelCase form (the writer's default key).
// The first hit wins. keys is the ordered list of object member keys as
// they appear in the JSON object; jsonName is an explicit `json:"..."`
// tag override that, when non-empty, is tried first and exclusively.
func ResolveField(fieldName, jsonName string, keys []string) (matchedKey string, ok bool) {
	if jsonName != "" {
		for _, k := range keys {
			if k == jsonName {
				return k, true
			}
		}
		return "", false
	}

	snake := SnakeCase(fieldName)
	for _, k := range keys {
		if k == fieldName {
			return k, true
		}
	}
	for _, k := range keys {
		if k == snake {
			return k, true
		}
	}
	lower := LowerCamelCase(fieldName)
	for _, k := range keys {
		if c := CamelCaseOfKey(k); c == fieldName || c == lower {
			return k, true
		}
	}
	return "", false
}
