// Package story turns implementation-plan tasks into user stories with
// acceptance criteria, implementation and testing sections.
package story

import "strings"

// Category selects the story template for a task.
type Category string

// Story categories, in classification priority order.
const (
	Infrastructure Category = "infrastructure"
	BackendAPI     Category = "backend_api"
	FrontendUI     Category = "frontend_ui"
	Generic        Category = "generic"
)

var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{Infrastructure, []string{"install", "setup", "configure", "infrastructure", "aws", "nginx", "postgresql", "redis"}},
	{BackendAPI, []string{"endpoint", "api", "backend", "service", "controller"}},
	{FrontendUI, []string{"ui", "component", "page", "interface", "display", "form", "button"}},
}

// Classify picks the first category with a keyword contained in the
// lower-cased task. Keywords match as substrings, so "build" matches "ui".
func Classify(task string) Category {
	lower := strings.ToLower(task)
	for _, c := range categoryKeywords {
		if containsAny(lower, c.keywords) {
			return c.category
		}
	}
	return Generic
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
