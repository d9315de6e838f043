package creator

import (
	"context"
	"fmt"

	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/plan"
	"github.com/aura-dev/jiractl/internal/story"
	"github.com/aura-dev/jiractl/internal/ui"
)

// DefaultEpicPrefix is the key prefix of the epics stories are attached to.
const DefaultEpicPrefix = "AURA"

// StoryOptions configures StoryCreator.Run.
type StoryOptions struct {
	ProjectKey  string
	StoryTypeID string
	// EpicPrefix forms the parent epic key "<prefix>-<stage number>".
	EpicPrefix string
	DryRun     bool
}

// StoryResult records one task's story.
type StoryResult struct {
	Task     string   `json:"task" yaml:"task" toml:"task"`
	Key      string   `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Category string   `json:"category" yaml:"category" toml:"category"`
	Labels   []string `json:"labels" yaml:"labels" toml:"labels"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// StageStories groups the stories of one stage.
type StageStories struct {
	Stage   int           `json:"stage" yaml:"stage" toml:"stage"`
	Name    string        `json:"name" yaml:"name" toml:"name"`
	EpicKey string        `json:"epic_key" yaml:"epic_key" toml:"epic_key"`
	Stories []StoryResult `json:"stories" yaml:"stories" toml:"stories"`
}

// StorySummary is the outcome of a story creation run.
type StorySummary struct {
	DryRun  bool           `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Stages  []StageStories `json:"stages" yaml:"stages" toml:"stages"`
	Created int            `json:"created" yaml:"created" toml:"created"`
	Failed  int            `json:"failed" yaml:"failed" toml:"failed"`
	Planned int            `json:"planned" yaml:"planned" toml:"planned"`
}

// StoryCreator creates one story per task under each stage's epic.
type StoryCreator struct {
	jira IssueService
	out  *ui.Printer
}

// NewStoryCreator returns a creator that narrates to out.
func NewStoryCreator(svc IssueService, out *ui.Printer) *StoryCreator {
	return &StoryCreator{jira: svc, out: out}
}

// Run creates stories for every task of stages. Failures of single stories
// are narrated and counted; only context cancellation aborts the run.
func (c *StoryCreator) Run(ctx context.Context, stages []plan.Stage, opts StoryOptions) (*StorySummary, error) {
	p := c.out
	sum := &StorySummary{DryRun: opts.DryRun}
	prefix := opts.EpicPrefix
	if prefix == "" {
		prefix = DefaultEpicPrefix
	}

	p.Infof("Found %d stages to process", len(stages))
	p.Blank()
	if opts.DryRun {
		p.Section("DRY RUN MODE")
		p.Blank()
	}

	for _, st := range stages {
		group := StageStories{Stage: st.Number, Name: st.Name, EpicKey: fmt.Sprintf("%s-%d", prefix, st.Number)}
		p.Infof("Stage %d: %s (%s)", st.Number, st.Name, group.EpicKey)
		item := p.Indent(2)
		item.Infof("Tasks: %d", len(st.Tasks))

		for _, task := range st.Tasks {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			content := story.Generate(task, st.Name)
			res := StoryResult{
				Task:     task,
				Category: string(content.Category),
				Labels:   story.Labels(st.Number, task),
			}
			sum.Planned++

			if opts.DryRun {
				item.DryRunf("Would create: %s", task)
				group.Stories = append(group.Stories, res)
				continue
			}

			key, err := c.jira.CreateStory(ctx, jira.StoryParams{
				ProjectKey:  opts.ProjectKey,
				EpicKey:     group.EpicKey,
				Summary:     task,
				Description: jira.SectionsToADF(content.Sections()),
				Labels:      res.Labels,
				IssueTypeID: opts.StoryTypeID,
			})
			if err != nil {
				res.Error = err.Error()
				sum.Failed++
				item.Failf("Failed: %s (%v)", task, err)
			} else {
				res.Key = key
				sum.Created++
				item.Passf("%s: %s", key, task)
			}
			group.Stories = append(group.Stories, res)
		}
		sum.Stages = append(sum.Stages, group)
		p.Blank()
	}

	p.Section("Complete")
	if opts.DryRun {
		p.Infof("Would create %d stories", sum.Planned)
	} else {
		p.Infof("Created %d stories", sum.Created)
		if sum.Failed > 0 {
			p.Warnf("%d stories failed", sum.Failed)
		}
	}
	p.Blank()
	return sum, nil
}
