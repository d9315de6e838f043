package creator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/plan"
	"github.com/aura-dev/jiractl/internal/ui"
)

type fakeService struct {
	next      int
	epics     []jira.EpicParams
	stories   []jira.StoryParams
	dates     map[string]time.Time
	links     [][2]string
	failEpic  map[string]bool // by summary
	failStory map[string]bool // by summary
	failDates bool
	failLinks bool
}

func newFakeService() *fakeService {
	return &fakeService{
		next:      100,
		dates:     map[string]time.Time{},
		failEpic:  map[string]bool{},
		failStory: map[string]bool{},
	}
}

func (f *fakeService) mutations() int {
	return len(f.epics) + len(f.stories) + len(f.dates) + len(f.links)
}

func (f *fakeService) CreateEpic(_ context.Context, p jira.EpicParams) (string, error) {
	if f.failEpic[p.Summary] {
		return "", errors.New("epic rejected")
	}
	f.epics = append(f.epics, p)
	f.next++
	return fmt.Sprintf("AURA-%d", f.next), nil
}

func (f *fakeService) CreateStory(_ context.Context, p jira.StoryParams) (string, error) {
	if f.failStory[p.Summary] {
		return "", errors.New("story rejected")
	}
	f.stories = append(f.stories, p)
	f.next++
	return fmt.Sprintf("AURA-%d", f.next), nil
}

func (f *fakeService) SetStartDate(_ context.Context, key, _ string, date time.Time) error {
	if f.failDates {
		return errors.New("field not on screen")
	}
	f.dates[key] = date
	return nil
}

func (f *fakeService) LinkIssues(_ context.Context, _, blocker, blocked string) error {
	if f.failLinks {
		return errors.New("link type missing")
	}
	f.links = append(f.links, [2]string{blocker, blocked})
	return nil
}

var sampleStages = []plan.Stage{
	{Number: 1, Name: "Foundation", Description: strings.Repeat("x", 600), Tasks: []string{"Install nginx", "Create /api/health endpoint"}},
	{Number: 2, Name: "Auth", Tasks: []string{"Build Login UI"}},
	{Number: 3, Name: "Launch", Tasks: []string{"Write release notes"}},
}

func projectOpts(dry bool) ProjectOptions {
	return ProjectOptions{
		BaseURL:         "https://x.atlassian.net",
		ProjectKey:      "AURA",
		EpicTypeID:      "10000",
		PriorityID:      "1",
		StartDateField:  "customfield_10015",
		LinkType:        "Blocks",
		Schedule:        plan.NewScheduler(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 1),
		AddDependencies: true,
		DryRun:          dry,
	}
}

func capture() (*ui.Printer, *bytes.Buffer) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var buf bytes.Buffer
	return ui.NewPrinter(&buf), &buf
}

// shape reduces narration to its indentation per line so dry and live runs
// can be compared structurally.
func shape(out string) []int {
	var s []int
	for _, line := range strings.Split(out, "\n") {
		s = append(s, len(line)-len(strings.TrimLeft(line, " ")))
	}
	return s
}

func TestProjectCreatorLive(t *testing.T) {
	svc := newFakeService()
	p, buf := capture()

	sum, err := NewProjectCreator(svc, p).Run(context.Background(), sampleStages, projectOpts(false))
	require.NoError(t, err)

	require.Len(t, svc.epics, 3)
	first := svc.epics[0]
	assert.Equal(t, "STAGE-001: Foundation", first.Summary)
	assert.Equal(t, []string{"stage-001", "stage"}, first.Labels)
	assert.Equal(t, "2025-01-12", first.Due.Format(jira.DateLayout))
	assert.Equal(t, "2025-01-19", svc.epics[1].Due.Format(jira.DateLayout))

	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), svc.dates["AURA-102"])
	assert.Equal(t, [][2]string{{"AURA-101", "AURA-102"}, {"AURA-102", "AURA-103"}, {"AURA-101", "AURA-103"}}, svc.links)

	assert.Equal(t, 3, sum.EpicsCreated)
	assert.Equal(t, 3, sum.LinksCreated)
	assert.Zero(t, sum.EpicsFailed+sum.LinksFailed+sum.DatesFailed)
	assert.Equal(t, "https://x.atlassian.net/jira/software/c/projects/AURA/roadmap", sum.RoadmapURL)

	out := buf.String()
	assert.Contains(t, out, "=== Creating Epics...\n   ✓ Created AURA-101: STAGE-001: Foundation\n             Dates: 2025-01-06 to 2025-01-12\n")
	assert.Contains(t, out, "   ✓ AURA-101 blocks AURA-103")
	assert.Contains(t, out, "=== View your project: https://x.atlassian.net/jira/software/projects/AURA")
}

func TestProjectCreatorDryRun(t *testing.T) {
	svc := newFakeService()
	p, buf := capture()

	sum, err := NewProjectCreator(svc, p).Run(context.Background(), sampleStages, projectOpts(true))
	require.NoError(t, err)
	assert.Zero(t, svc.mutations())
	assert.True(t, sum.DryRun)
	assert.Equal(t, "AURA-2", sum.Epics[1].Key)
	assert.Len(t, sum.Links, 3)

	out := buf.String()
	assert.Contains(t, out, "   [DRY RUN] Would create: STAGE-002: Auth\n             Dates: 2025-01-13 to 2025-01-19\n")
	assert.Contains(t, out, "   [DRY RUN] AURA-1 blocks AURA-3")
}

func TestProjectCreatorDryRunMatchesLiveStructure(t *testing.T) {
	liveP, liveBuf := capture()
	_, err := NewProjectCreator(newFakeService(), liveP).Run(context.Background(), sampleStages, projectOpts(false))
	require.NoError(t, err)

	dryP, dryBuf := capture()
	_, err = NewProjectCreator(newFakeService(), dryP).Run(context.Background(), sampleStages, projectOpts(true))
	require.NoError(t, err)

	// The dry run adds a two-line banner before the shared body.
	dry := shape(dryBuf.String())[2:]
	assert.Equal(t, shape(liveBuf.String()), dry)
}

func TestProjectCreatorFailuresAreCounted(t *testing.T) {
	svc := newFakeService()
	svc.failEpic["STAGE-002: Auth"] = true
	svc.failDates = true
	svc.failLinks = true
	p, buf := capture()

	sum, err := NewProjectCreator(svc, p).Run(context.Background(), sampleStages, projectOpts(false))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.EpicsCreated)
	assert.Equal(t, 1, sum.EpicsFailed)
	assert.Equal(t, 2, sum.DatesFailed)
	// Only stage 1 -> 3 remains linkable once stage 2 failed.
	assert.Equal(t, 1, sum.LinksFailed)
	require.Len(t, sum.Links, 1)
	assert.Equal(t, "link type missing", sum.Links[0].Error)

	out := buf.String()
	assert.Contains(t, out, "   ✗ Failed to create: STAGE-002: Auth")
	assert.Contains(t, out, "start date not set: field not on screen")
	assert.Contains(t, out, "   ✗ AURA-101 blocks AURA-102 (link type missing)")
}

func TestProjectCreatorWithoutDependencies(t *testing.T) {
	svc := newFakeService()
	p, buf := capture()
	opts := projectOpts(false)
	opts.AddDependencies = false

	_, err := NewProjectCreator(svc, p).Run(context.Background(), sampleStages, opts)
	require.NoError(t, err)
	assert.Empty(t, svc.links)
	assert.NotContains(t, buf.String(), "Creating Dependencies")
}

func TestProjectCreatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, _ := capture()
	_, err := NewProjectCreator(newFakeService(), p).Run(ctx, sampleStages, projectOpts(false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoryCreatorLive(t *testing.T) {
	svc := newFakeService()
	p, buf := capture()

	sum, err := NewStoryCreator(svc, p).Run(context.Background(), sampleStages, StoryOptions{
		ProjectKey:  "AURA",
		StoryTypeID: "10006",
		EpicPrefix:  "PROJ",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Created)
	require.Len(t, svc.stories, 4)

	s := svc.stories[1]
	assert.Equal(t, "PROJ-1", s.EpicKey)
	assert.Equal(t, "10006", s.IssueTypeID)
	assert.Equal(t, "Create /api/health endpoint", s.Summary)
	assert.Equal(t, []string{"stage-001", "backend"}, s.Labels)
	assert.Contains(t, jira.DescriptionToPlainText(s.Description), "1. Create route: /api/health")

	assert.Equal(t, "frontend_ui", sum.Stages[1].Stories[0].Category)

	out := buf.String()
	assert.Contains(t, out, "Stage 2: Auth (PROJ-2)\n  Tasks: 1\n  ✓ AURA-103: Build Login UI\n")
	assert.Contains(t, out, "Created 4 stories")
}

func TestStoryCreatorDryRun(t *testing.T) {
	svc := newFakeService()
	p, buf := capture()

	sum, err := NewStoryCreator(svc, p).Run(context.Background(), plan.Filter(sampleStages, []int{3}), StoryOptions{DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, svc.mutations())
	assert.Equal(t, 1, sum.Planned)
	assert.Contains(t, buf.String(), "Stage 3: Launch (AURA-3)")
	assert.Contains(t, buf.String(), "  [DRY RUN] Would create: Write release notes")
	assert.Contains(t, buf.String(), "Would create 1 stories")
}

func TestStoryCreatorFailure(t *testing.T) {
	svc := newFakeService()
	svc.failStory["Build Login UI"] = true
	p, buf := capture()

	sum, err := NewStoryCreator(svc, p).Run(context.Background(), sampleStages, StoryOptions{ProjectKey: "AURA"})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Created)
	assert.Equal(t, 1, sum.Failed)
	assert.Regexp(t, regexp.MustCompile(`✗ Failed: Build Login UI \(story rejected\)`), buf.String())
}
