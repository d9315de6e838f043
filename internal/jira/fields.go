package jira

import (
	"encoding/json"
	"time"
)

// DateLayout is the format of Jira date fields such as duedate.
const DateLayout = "2006-01-02"

// MaxEpicDescription bounds epic descriptions, which come from free-form
// documents and AI output.
const MaxEpicDescription = 500

// EpicParams describes an epic to create.
type EpicParams struct {
	ProjectKey  string
	Summary     string
	Description string
	Labels      []string
	IssueTypeID string
	PriorityID  string
	Due         time.Time
}

// Fields builds the create-issue fields for the epic.
func (p EpicParams) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"project":   map[string]string{"key": p.ProjectKey},
		"summary":   p.Summary,
		"issuetype": map[string]string{"id": p.IssueTypeID},
	}
	if p.PriorityID != "" {
		fields["priority"] = map[string]string{"id": p.PriorityID}
	}
	if desc := PlainTextToADF(Truncate(p.Description, MaxEpicDescription)); desc != nil {
		fields["description"] = desc
	}
	if len(p.Labels) > 0 {
		fields["labels"] = p.Labels
	}
	if !p.Due.IsZero() {
		fields["duedate"] = p.Due.Format(DateLayout)
	}
	return fields
}

// StoryParams describes a story to create under an epic.
type StoryParams struct {
	ProjectKey  string
	EpicKey     string
	Summary     string
	Description json.RawMessage
	Labels      []string
	IssueTypeID string
}

// Fields builds the create-issue fields for the story.
func (p StoryParams) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"project":   map[string]string{"key": p.ProjectKey},
		"summary":   p.Summary,
		"issuetype": map[string]string{"id": p.IssueTypeID},
		"parent":    map[string]string{"key": p.EpicKey},
	}
	if len(p.Description) > 0 {
		fields["description"] = p.Description
	}
	if len(p.Labels) > 0 {
		fields["labels"] = p.Labels
	}
	return fields
}
