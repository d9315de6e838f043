// Package jira provides a client, types, and field builders for the Jira
// Cloud REST API v3.
package jira

import "encoding/json"

// Issue represents a Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue. Only the fields requested
// via GetIssue are populated.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"` // ADF (Atlassian Document Format) or plain text
	Status      *StatusField    `json:"status"`
	IssueType   *IssueTypeField `json:"issuetype"`
	Labels      []string        `json:"labels"`
	Parent      *Issue          `json:"parent"`
	Subtasks    []Issue         `json:"subtasks"`
	IssueLinks  []IssueLink     `json:"issuelinks"`
}

// StatusName returns the issue's status name, or "" when status was not fetched.
func (i *Issue) StatusName() string {
	if i == nil || i.Fields.Status == nil {
		return ""
	}
	return i.Fields.Status.Name
}

// TypeName returns the issue type name, or "".
func (i *Issue) TypeName() string {
	if i == nil || i.Fields.IssueType == nil {
		return ""
	}
	return i.Fields.IssueType.Name
}

// StatusField represents a Jira issue status.
type StatusField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueTypeField represents a Jira issue type.
type IssueTypeField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueLink is one entry of the issuelinks field. Exactly one of InwardIssue
// and OutwardIssue is set: the other end of the link.
type IssueLink struct {
	ID           string   `json:"id"`
	Type         LinkType `json:"type"`
	InwardIssue  *Issue   `json:"inwardIssue,omitempty"`
	OutwardIssue *Issue   `json:"outwardIssue,omitempty"`
}

// Other returns the issue at the far end of the link.
func (l IssueLink) Other() *Issue {
	if l.OutwardIssue != nil {
		return l.OutwardIssue
	}
	return l.InwardIssue
}

// LinkType names an issue link type such as "Blocks".
type LinkType struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// Transition is a workflow transition available on an issue.
type Transition struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	To   *StatusField `json:"to,omitempty"`
}

// CreatedIssue is the response to a create request.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}
