// Command jira-project-creator turns a specification document into a Jira
// project plan: one epic per stage with start and due dates, linked by
// "Blocks" dependencies.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aura-dev/jiractl/internal/cli"
	"github.com/aura-dev/jiractl/internal/config"
	"github.com/aura-dev/jiractl/internal/creator"
	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/plan"
	"github.com/aura-dev/jiractl/internal/planner"
	"github.com/aura-dev/jiractl/internal/report"
	"github.com/aura-dev/jiractl/internal/specdoc"
	"github.com/aura-dev/jiractl/internal/timeparsing"
	"github.com/aura-dev/jiractl/internal/ui"
)

const toolName = "jira-project-creator"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   toolName + " --spec PATH --config PATH",
		Short: "Create a staged Jira project plan from a specification document",
		Long: `Reads a specification (.docx or text), derives implementation stages either
with Claude (when anthropic.apiKey is configured) or by parsing "Stage N:"
headings, and creates one epic per stage with dates and dependencies.`,
		Args:          cobra.NoArgs,
		Version:       cli.Version,
		SilenceErrors: true,
		RunE:          runE,
	}

	f := cmd.Flags()
	f.String("spec", "", "Path to specification document (.docx or text)")
	f.String("config", "", "Path to config JSON file")
	f.Int("compress-timeline", 0, "Timeline compression factor (e.g. 7 turns 1 week into 1 day)")
	f.String("start-date", "", "Project start date (YYYY-MM-DD, 'tomorrow', '+3d', 'next monday')")
	f.Bool("dry-run", false, "Preview without creating anything in Jira")
	f.StringP("output", "o", "", "Write a run summary to this file (.json, .yaml or .toml)")
	f.Bool("no-ai", false, "Parse stage headings instead of asking Claude for a plan")
	f.BoolP("yes", "y", false, "Skip the confirmation prompt")
	f.BoolP("verbose", "v", false, "Enable verbose/debug output")
	f.BoolP("quiet", "q", false, "Only print failures and warnings")
	_ = cmd.MarkFlagRequired("spec")
	_ = cmd.MarkFlagRequired("config")
	cmd.SetVersionTemplate(cli.VersionString(toolName) + "\n")
	return cmd
}

func main() {
	os.Exit(cli.Report(newRootCmd().Execute()))
}

func runE(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	specPath, _ := cmd.Flags().GetString("spec")
	configPath, _ := cmd.Flags().GetString("config")
	compress, _ := cmd.Flags().GetInt("compress-timeline")
	startFlag, _ := cmd.Flags().GetString("start-date")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	yes, _ := cmd.Flags().GetBool("yes")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if output != "" {
		if _, err := report.FormatFor(output); err != nil {
			return cli.Fail(err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.FailWithHint(err, "pass --config with a JSON file containing jira, timeline and options sections")
	}
	if cmd.Flags().Changed("compress-timeline") {
		cfg.Timeline.CompressionFactor = compress
	}
	if startFlag != "" {
		cfg.Timeline.StartDate = startFlag
	}
	if err := cfg.ValidateTimeline(); err != nil {
		return cli.Fail(err)
	}
	start, err := timeparsing.ParseStartDate(cfg.Timeline.StartDate, time.Now())
	if err != nil {
		return cli.Failf("invalid start date: %w", err)
	}
	if !dryRun {
		if err := cfg.ValidateJira(); err != nil {
			return cli.FailWithHint(err, "set the jira section in the config file or JIRACTL_JIRA_* environment variables")
		}
	}

	s := cli.Start(toolName, verbose, quiet)
	defer s.Close()
	out := ui.NewPrinter(cmd.OutOrStdout())

	paragraphs, err := specdoc.ReadDocument(specPath)
	if err != nil {
		return cli.Fail(err)
	}

	out.Section("Generating implementation plan from specification...")
	item := out.Indent(3)
	var stages []plan.Stage
	if cfg.AIEnabled() && !noAI {
		gen := planner.New(planner.NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens))
		stages, err = gen.Generate(s.Ctx, specdoc.Text(paragraphs))
		if err != nil {
			if errors.Is(err, planner.ErrNoPlan) {
				return cli.FailWithHint(err, "re-run, or use --no-ai to parse stage headings from the document")
			}
			return cli.Failf("plan generation failed: %w", err)
		}
		item.Infof("AI generated %d stages", len(stages))
	} else {
		if !noAI {
			item.Warnf("No API key, falling back to spec parsing")
		}
		info := specdoc.ExtractProjectInfo(paragraphs)
		stages = specdoc.ExtractStages(paragraphs)
		name := info.Name
		if name == "" {
			name = "Unknown"
		}
		item.Infof("Project: %s", name)
	}
	item.Infof("Total Stages: %d", len(stages))
	out.Blank()

	if len(stages) == 0 {
		return cli.FailWithHint(fmt.Errorf("no stages found in %s", specPath), "add headings like 'Stage 1: Foundation' to the document")
	}
	if err := plan.Validate(stages); err != nil {
		return cli.FailWithHint(fmt.Errorf("invalid stages in %s: %w", specPath, err), "number stages from 1 and give each a name, e.g. 'Stage 1: Foundation'")
	}

	if !dryRun && !yes && ui.IsInteractive() {
		desc := fmt.Sprintf("%d epics will be created in %s starting %s", len(stages), cfg.Jira.ProjectKey, start.Format(jira.DateLayout))
		if err := ui.Confirm("Create Jira epics?", desc); err != nil {
			if errors.Is(err, ui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return cli.Silent(1)
			}
			return cli.Fail(err)
		}
	}

	client := jira.NewClient(cfg.Jira.InstanceURL, cfg.Jira.Email, cfg.Jira.APIToken)
	client.HTTPClient.Timeout = cfg.Jira.Timeout
	client.RetryMaxElapsed = cfg.Jira.RetryMaxElapsed

	sum, err := creator.NewProjectCreator(client, out).Run(s.Ctx, stages, creator.ProjectOptions{
		BaseURL:         cfg.Jira.InstanceURL,
		ProjectKey:      cfg.Jira.ProjectKey,
		EpicTypeID:      cfg.Jira.EpicTypeID,
		PriorityID:      cfg.Jira.EpicPriorityID,
		StartDateField:  cfg.Jira.StartDateField,
		LinkType:        cfg.Jira.LinkType,
		Schedule:        plan.NewScheduler(start, cfg.Timeline.CompressionFactor),
		AddDependencies: cfg.Options.AddDependencies,
		DryRun:          dryRun,
		KeyPrefix:       keyPrefix(cfg.Jira.ProjectKey),
	})
	if err != nil {
		return cli.Failf("interrupted: %w", err)
	}

	if output != "" {
		if err := report.Write(output, sum); err != nil {
			cli.WarnError("%v", err)
		} else {
			out.Infof("Summary written to %s", output)
		}
	}
	return nil
}

func keyPrefix(projectKey string) string {
	if projectKey == "" {
		return creator.DefaultEpicPrefix
	}
	return projectKey
}
