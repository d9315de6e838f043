package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/ui"
)

// Tracker is the subset of the Jira API the engine needs.
type Tracker interface {
	GetIssue(ctx context.Context, key string, fields ...string) (*jira.Issue, error)
	GetTransitions(ctx context.Context, key string) ([]jira.Transition, error)
	DoTransition(ctx context.Context, key, transitionID string) error
}

// storyFields is everything UpdateStory reads from the story in one request.
var storyFields = []string{"summary", "description", "status", "issuetype", "subtasks", "issuelinks"}

// maxDescription bounds the description echoed in the story details.
const maxDescription = 200

// UnavailableError reports that no transition to the requested status is
// available from the issue's current state.
type UnavailableError struct {
	Key       string
	Status    string
	Available []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("status '%s' not available for %s (available: %s)",
		e.Status, e.Key, strings.Join(e.Available, ", "))
}

// Item is a story or test case as seen before any transition.
type Item struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Type    string `json:"type,omitempty"`
	// Description is the issue description as plain text, truncated.
	Description string `json:"description,omitempty"`
}

// Result describes the outcome of UpdateStory.
type Result struct {
	Story        Item     `json:"story"`
	Target       string   `json:"target"`
	StoryUpdated bool     `json:"story_updated"`
	Verified     bool     `json:"verified"`
	DryRun       bool     `json:"dry_run,omitempty"`
	TestCases    []Item   `json:"test_cases"`
	Succeeded    []string `json:"succeeded"`
	Failed       []string `json:"failed"`
	Skipped      []string `json:"skipped"`
}

// OK reports whether the story reached the target and no test case failed.
func (r *Result) OK() bool {
	return r.StoryUpdated && len(r.Failed) == 0
}

// Engine applies status updates. With DryRun set it reads from Jira but
// performs no transitions.
type Engine struct {
	jira   Tracker
	out    *ui.Printer
	DryRun bool
}

// NewEngine returns an Engine narrating to out.
func NewEngine(tracker Tracker, out *ui.Printer) *Engine {
	return &Engine{jira: tracker, out: out}
}

// Transition moves key to status via the matching workflow transition.
func (e *Engine) Transition(ctx context.Context, key, status string) error {
	transitions, err := e.jira.GetTransitions(ctx, key)
	if err != nil {
		return err
	}
	id, ok := findTransition(transitions, TransitionName(status))
	if !ok {
		names := make([]string, len(transitions))
		for i, t := range transitions {
			names[i] = t.Name
		}
		return &UnavailableError{Key: key, Status: status, Available: names}
	}
	if e.DryRun {
		return nil
	}
	return e.jira.DoTransition(ctx, key, id)
}

func findTransition(transitions []jira.Transition, name string) (string, bool) {
	for _, t := range transitions {
		if t.Name == name {
			return t.ID, true
		}
	}
	return "", false
}

// UpdateStory moves the story to target, then cascades the transition to its
// subtasks and linked test cases. Items already at target are skipped. An
// error is returned only when the story itself cannot be read; transition
// failures are recorded in the Result.
func (e *Engine) UpdateStory(ctx context.Context, key, target string) (*Result, error) {
	res := &Result{Target: target, DryRun: e.DryRun}
	p := e.out

	p.Section("Updating %s to %s", key, target)

	issue, err := e.jira.GetIssue(ctx, key, storyFields...)
	if err != nil {
		if jira.IsNotFound(err) {
			return nil, fmt.Errorf("story %s not found: %w", key, err)
		}
		return nil, err
	}
	res.Story = itemOf(issue)

	d := p.Indent(2)
	d.Infof("Key: %s", res.Story.Key)
	d.Infof("Summary: %s", res.Story.Summary)
	d.Infof("Current Status: %s", ui.RenderStatus(res.Story.Status))
	d.Infof("Type: %s", res.Story.Type)
	if res.Story.Description != "" {
		d.Infof("Description: %s", strings.Join(strings.Fields(res.Story.Description), " "))
	}
	p.Blank()

	res.TestCases = TestCases(issue)
	p.Section("Test cases")
	if len(res.TestCases) == 0 {
		d.Infof("No test cases found")
	} else {
		d.Infof("Found %d test case(s):", len(res.TestCases))
		for _, tc := range res.TestCases {
			d.Indent(2).Infof("- %s: %s (Status: %s)", tc.Key, tc.Summary, ui.RenderStatus(tc.Status))
		}
	}
	p.Blank()

	p.Section("Story")
	if res.Story.Status == target {
		d.Passf("Story already in '%s'", target)
		res.StoryUpdated = true
		res.Verified = true
	} else if !e.transitionStory(ctx, d, res) {
		p.Blank()
		e.printSummary(res)
		return res, nil
	}
	p.Blank()

	if len(res.TestCases) > 0 {
		p.Section("Updating test cases")
		for _, tc := range res.TestCases {
			if tc.Status == target {
				d.Skipf("%s already in '%s'", tc.Key, target)
				res.Skipped = append(res.Skipped, tc.Key)
				continue
			}
			if err := e.Transition(ctx, tc.Key, target); err != nil {
				d.Failf("%s: %v", tc.Key, err)
				res.Failed = append(res.Failed, tc.Key)
				continue
			}
			if e.DryRun {
				d.DryRunf("Would transition %s: %s -> %s", tc.Key, tc.Status, target)
			} else {
				d.Passf("%s -> %s", tc.Key, target)
			}
			res.Succeeded = append(res.Succeeded, tc.Key)
		}
		p.Blank()
	}

	e.printSummary(res)
	return res, nil
}

// transitionStory moves the story and, outside dry-run, re-reads it to
// confirm the new status. It reports whether the cascade should continue.
func (e *Engine) transitionStory(ctx context.Context, d *ui.Printer, res *Result) bool {
	key, target := res.Story.Key, res.Target
	if err := e.Transition(ctx, key, target); err != nil {
		d.Failf("Could not update story: %v", err)
		return false
	}
	if e.DryRun {
		d.DryRunf("Would transition %s: %s -> %s", key, res.Story.Status, target)
		res.StoryUpdated = true
		return true
	}
	d.Passf("%s -> %s", key, target)

	after, err := e.jira.GetIssue(ctx, key, "status")
	switch {
	case err != nil:
		d.Warnf("Could not verify %s: %v", key, err)
	case after.StatusName() != target:
		d.Warnf("Status is '%s' after transition, expected '%s'", after.StatusName(), target)
	default:
		d.Passf("Verified: status is now '%s'", target)
		res.Verified = true
		res.StoryUpdated = true
	}
	return true
}

func (e *Engine) printSummary(res *Result) {
	p := e.out
	d := p.Indent(2)
	p.Section("Summary")
	switch {
	case res.StoryUpdated && res.DryRun:
		d.Infof("Story: Would update")
	case res.StoryUpdated:
		d.Infof("Story: Updated")
	default:
		d.Infof("Story: Failed")
	}
	if len(res.TestCases) == 0 {
		return
	}
	d.Infof("Test Cases: %d total", len(res.TestCases))
	dd := d.Indent(2)
	if n := len(res.Succeeded); n > 0 {
		dd.Infof("- %d updated: %s", n, strings.Join(res.Succeeded, ", "))
	}
	if n := len(res.Skipped); n > 0 {
		dd.Infof("- %d skipped (already in status)", n)
	}
	if n := len(res.Failed); n > 0 {
		dd.Infof("- %d failed: %s", n, strings.Join(res.Failed, ", "))
	}
}

// TestCases returns the story's subtasks followed by linked issues that look
// like test cases (issue type containing "Test" or key prefix "TC-"), in
// either link direction. Duplicates are dropped.
func TestCases(story *jira.Issue) []Item {
	var items []Item
	seen := make(map[string]bool)
	add := func(i *jira.Issue) {
		if i == nil || i.Key == "" || seen[i.Key] {
			return
		}
		seen[i.Key] = true
		items = append(items, itemOf(i))
	}

	for i := range story.Fields.Subtasks {
		add(&story.Fields.Subtasks[i])
	}
	for _, link := range story.Fields.IssueLinks {
		other := link.Other()
		if other != nil && isTestCase(other) {
			add(other)
		}
	}
	return items
}

func isTestCase(i *jira.Issue) bool {
	return strings.Contains(i.TypeName(), "Test") || strings.HasPrefix(i.Key, "TC-")
}

func itemOf(i *jira.Issue) Item {
	return Item{
		Key:         i.Key,
		Summary:     i.Fields.Summary,
		Status:      i.StatusName(),
		Type:        i.TypeName(),
		Description: jira.Truncate(jira.DescriptionToPlainText(i.Fields.Description), maxDescription),
	}
}
