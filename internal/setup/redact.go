package setup

import (
	"sort"
	"strings"

	"github.com/ormstarter/ormstarter/internal/registry"
)

// sensitivePatterns mark keys whose values are redacted for display.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL", "DATABASE_URL", "URI"}

// RedactValue masks values of sensitive keys, keeping a four character
// prefix of long values.
func RedactValue(key, value string) string {
	if value == "" {
		return value
	}
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(value) >= 8 {
				return value[:4] + "***"
			}
			return "***"
		}
	}
	return value
}

// Redacted returns env as sorted pairs with sensitive values masked.
func Redacted(env map[string]string) []registry.Pair {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]registry.Pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, registry.Pair{Key: k, Value: RedactValue(k, env[k])})
	}
	return out
}
