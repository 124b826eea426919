package slash

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Interpolate replaces every {{name}} occurrence found in bindings and strips
// any placeholder left unresolved. It is deliberately minimal: no expressions,
// no escaping, no recursion.
func Interpolate(template string, bindings map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := bindings[name]; ok {
			return v
		}
		return ""
	})
}
