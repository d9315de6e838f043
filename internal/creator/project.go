package creator

import (
	"context"
	"fmt"

	"github.com/aura-dev/jiractl/internal/debug"
	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/plan"
	"github.com/aura-dev/jiractl/internal/ui"
)

// ProjectOptions configures ProjectCreator.Run.
type ProjectOptions struct {
	BaseURL        string
	ProjectKey     string
	EpicTypeID     string
	PriorityID     string
	StartDateField string
	LinkType       string

	Schedule        plan.Scheduler
	AddDependencies bool
	DryRun          bool

	// KeyPrefix names the synthetic epic keys shown in dry runs. Defaults to
	// ProjectKey.
	KeyPrefix string
}

// EpicResult records one stage's epic.
type EpicResult struct {
	Stage        int    `json:"stage" yaml:"stage" toml:"stage"`
	Summary      string `json:"summary" yaml:"summary" toml:"summary"`
	Key          string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Start        string `json:"start" yaml:"start" toml:"start"`
	Due          string `json:"due" yaml:"due" toml:"due"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	StartDateErr string `json:"start_date_error,omitempty" yaml:"start_date_error,omitempty" toml:"start_date_error,omitempty"`
}

// LinkResult records one dependency link.
type LinkResult struct {
	Blocker string `json:"blocker" yaml:"blocker" toml:"blocker"`
	Blocked string `json:"blocked" yaml:"blocked" toml:"blocked"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// ProjectSummary is the outcome of a project creation run.
type ProjectSummary struct {
	ProjectKey   string       `json:"project_key" yaml:"project_key" toml:"project_key"`
	DryRun       bool         `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Epics        []EpicResult `json:"epics" yaml:"epics" toml:"epics"`
	Links        []LinkResult `json:"links" yaml:"links" toml:"links"`
	EpicsCreated int          `json:"epics_created" yaml:"epics_created" toml:"epics_created"`
	EpicsFailed  int          `json:"epics_failed" yaml:"epics_failed" toml:"epics_failed"`
	DatesFailed  int          `json:"dates_failed" yaml:"dates_failed" toml:"dates_failed"`
	LinksCreated int          `json:"links_created" yaml:"links_created" toml:"links_created"`
	LinksFailed  int          `json:"links_failed" yaml:"links_failed" toml:"links_failed"`
	ProjectURL   string       `json:"project_url,omitempty" yaml:"project_url,omitempty" toml:"project_url,omitempty"`
	RoadmapURL   string       `json:"roadmap_url,omitempty" yaml:"roadmap_url,omitempty" toml:"roadmap_url,omitempty"`
}

// ProjectCreator creates one epic per stage and links them.
type ProjectCreator struct {
	jira IssueService
	out  *ui.Printer
}

// NewProjectCreator returns a creator that narrates to out.
func NewProjectCreator(svc IssueService, out *ui.Printer) *ProjectCreator {
	return &ProjectCreator{jira: svc, out: out}
}

// Run creates the epics for stages, sets their start dates, and links
// inferred dependencies. Per-item failures are narrated and counted but do
// not stop the run; only context cancellation does.
func (c *ProjectCreator) Run(ctx context.Context, stages []plan.Stage, opts ProjectOptions) (*ProjectSummary, error) {
	p := c.out
	item := p.Indent(3)
	sum := &ProjectSummary{ProjectKey: opts.ProjectKey, DryRun: opts.DryRun}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = opts.ProjectKey
	}

	if opts.DryRun {
		p.Section("DRY RUN MODE - No changes will be made")
		p.Blank()
	}

	epicKeys := make(map[int]string, len(stages))

	p.Section("Creating Epics...")
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		start, due := opts.Schedule.Window(st.Number)
		res := EpicResult{
			Stage:   st.Number,
			Summary: st.Summary(),
			Start:   start.Format(jira.DateLayout),
			Due:     due.Format(jira.DateLayout),
		}

		if opts.DryRun {
			res.Key = fmt.Sprintf("%s-%d", prefix, st.Number)
			epicKeys[st.Number] = res.Key
			item.DryRunf("Would create: %s", res.Summary)
			item.Detailf("Dates: %s to %s", res.Start, res.Due)
			sum.Epics = append(sum.Epics, res)
			continue
		}

		key, err := c.jira.CreateEpic(ctx, jira.EpicParams{
			ProjectKey:  opts.ProjectKey,
			Summary:     res.Summary,
			Description: st.Description,
			Labels:      []string{st.Label(), "stage"},
			IssueTypeID: opts.EpicTypeID,
			PriorityID:  opts.PriorityID,
			Due:         due,
		})
		if err != nil {
			res.Error = err.Error()
			sum.EpicsFailed++
			item.Failf("Failed to create: %s", res.Summary)
			item.Detailf("%v", err)
			sum.Epics = append(sum.Epics, res)
			continue
		}

		res.Key = key
		epicKeys[st.Number] = key
		sum.EpicsCreated++
		item.Passf("Created %s: %s", key, res.Summary)

		if err := c.jira.SetStartDate(ctx, key, opts.StartDateField, start); err != nil {
			res.StartDateErr = err.Error()
			sum.DatesFailed++
			item.Detailf("Dates: %s to %s (start date not set: %v)", res.Start, res.Due, err)
		} else {
			item.Detailf("Dates: %s to %s", res.Start, res.Due)
		}
		sum.Epics = append(sum.Epics, res)
	}
	p.Blank()

	if opts.AddDependencies {
		p.Section("Creating Dependencies...")
		deps := plan.InferDependencies(stages)
		for _, edge := range deps.Edges() {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			blocker, okA := epicKeys[edge[0]]
			blocked, okB := epicKeys[edge[1]]
			if !okA || !okB {
				debug.Logf("skipping link %d -> %d: epic missing\n", edge[0], edge[1])
				continue
			}
			link := LinkResult{Blocker: blocker, Blocked: blocked}
			if opts.DryRun {
				item.DryRunf("%s blocks %s", blocker, blocked)
			} else if err := c.jira.LinkIssues(ctx, opts.LinkType, blocker, blocked); err != nil {
				link.Error = err.Error()
				sum.LinksFailed++
				item.Failf("%s blocks %s (%v)", blocker, blocked, err)
			} else {
				sum.LinksCreated++
				item.Passf("%s blocks %s", blocker, blocked)
			}
			sum.Links = append(sum.Links, link)
		}
		p.Blank()
	}

	if opts.DryRun {
		p.Infof("Dry run complete: %d epics, %d links planned", len(sum.Epics), len(sum.Links))
	} else {
		p.Infof("Project creation complete: %d epics created, %d failed; %d links created, %d failed",
			sum.EpicsCreated, sum.EpicsFailed, sum.LinksCreated, sum.LinksFailed)
		if sum.DatesFailed > 0 {
			p.Warnf("%d epic start date(s) could not be set", sum.DatesFailed)
		}
	}
	p.Blank()

	if opts.BaseURL != "" {
		sum.ProjectURL = jira.ProjectURL(opts.BaseURL, opts.ProjectKey)
		sum.RoadmapURL = jira.RoadmapURL(opts.BaseURL, opts.ProjectKey)
		p.Section("View your project: %s", sum.ProjectURL)
		p.Section("View roadmap: %s", sum.RoadmapURL)
	}
	return sum, nil
}
