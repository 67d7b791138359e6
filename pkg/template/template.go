// Package template substitutes {{name}} placeholders in notification and email templates.
package template

import (
	"regexp"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render replaces every {{name}} whose name is present in vars.
// Unknown placeholders are left as written.
func Render(input string, vars map[string]string) string {
	if len(vars) == 0 {
		return input
	}

	return placeholder.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]

		value, ok := vars[name]
		if !ok {
			return match
		}

		return value
	})
}

// Placeholders returns the distinct placeholder names of input in order of appearance.
func Placeholders(input string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)

	for _, match := range placeholder.FindAllStringSubmatch(input, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}

	return names
}
