// Package render prepares generated blueprints for display.
package render

import (
	"html"
	"regexp"
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// HTML escapes text and turns **bold** runs into <strong> elements.
// Newlines and all other Markdown are left as they are.
func HTML(text string) string {
	return boldPattern.ReplaceAllString(html.EscapeString(text), "<strong>$1</strong>")
}
