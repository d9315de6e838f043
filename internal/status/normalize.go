// Package status moves a Jira story and its test cases to a target status
// through workflow transitions.
package status

import "strings"

// Canonical target statuses.
const (
	Done       = "Done"
	InProgress = "In Progress"
	NotNeeded  = "Not Needed"
)

var shortcuts = map[string]string{
	"done":      Done,
	"complete":  Done,
	"completed": Done,
	"progress":  InProgress,
	"started":   InProgress,
	"start":     InProgress,
	"working":   InProgress,
	"cancel":    NotNeeded,
	"cancelled": NotNeeded,
	"skip":      NotNeeded,
}

// transitionSynonyms maps a status to the workflow transition that reaches
// it when the two are named differently.
var transitionSynonyms = map[string]string{
	"In Progress": "Start Progress",
	"in progress": "Start Progress",
	"progress":    "Start Progress",
}

// NormalizeStatus expands shortcuts such as "done" or "working" to the
// canonical status name. Unknown input is returned unchanged, so the
// function is idempotent.
func NormalizeStatus(input string) string {
	if s, ok := shortcuts[strings.ToLower(strings.TrimSpace(input))]; ok {
		return s
	}
	return strings.TrimSpace(input)
}

// TransitionName returns the transition to look for when moving an issue to
// status.
func TransitionName(status string) string {
	if t, ok := transitionSynonyms[status]; ok {
		return t
	}
	return status
}
