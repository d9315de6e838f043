package story

import (
	"fmt"
	"strings"
)

// Labels returns the Jira labels for a story: the stage label followed by
// area labels inferred from the task wording.
func Labels(stageNumber int, task string) []string {
	labels := []string{fmt.Sprintf("stage-%03d", stageNumber)}
	lower := strings.ToLower(task)
	if containsAny(lower, []string{"backend", "api"}) {
		labels = append(labels, "backend")
	}
	if containsAny(lower, []string{"frontend", "ui"}) {
		labels = append(labels, "frontend")
	}
	if strings.Contains(lower, "test") {
		labels = append(labels, "testing")
	}
	if containsAny(lower, []string{"database", "table"}) {
		labels = append(labels, "database")
	}
	return labels
}
