// Package creator drives Jira issue creation for a staged plan: one epic per
// stage with dates and dependency links, and one story per task.
package creator

import (
	"context"
	"time"

	"github.com/aura-dev/jiractl/internal/jira"
)

// IssueService is the subset of the Jira API the creators call. Every
// method mutates Jira; dry runs call none of them.
type IssueService interface {
	CreateEpic(ctx context.Context, p jira.EpicParams) (string, error)
	CreateStory(ctx context.Context, p jira.StoryParams) (string, error)
	SetStartDate(ctx context.Context, key, field string, date time.Time) error
	LinkIssues(ctx context.Context, linkType, blocker, blocked string) error
}
