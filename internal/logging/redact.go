package logging

import (
	"strings"
)

// Message bodies in a crew-health tool can carry medical detail, so any
// field that may hold message text or credentials is dropped from logs.
var sensitiveFields = []string{
	"content",
	"body",
	"text",
	"draft",
	"password",
	"secret",
	"token",
	"authorization",
	"credential",
}

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// RedactMap redacts sensitive fields in a map.
func RedactMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))

	for k, v := range m {
		if IsSensitiveField(k) {
			result[k] = RedactedValue
		} else if nested, ok := v.(map[string]interface{}); ok {
			result[k] = RedactMap(nested)
		} else {
			result[k] = v
		}
	}

	return result
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lowerName := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lowerName, field) {
			return true
		}
	}
	return false
}
