// Command jira-story-creator creates detailed Jira stories from a Markdown
// implementation plan. Each "- [ ] task" under a stage's **Tasks:** list
// becomes a story under that stage's epic.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aura-dev/jiractl/internal/cli"
	"github.com/aura-dev/jiractl/internal/config"
	"github.com/aura-dev/jiractl/internal/creator"
	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/plan"
	"github.com/aura-dev/jiractl/internal/report"
	"github.com/aura-dev/jiractl/internal/ui"
)

const toolName = "jira-story-creator"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           toolName + " --plan PATH --config PATH",
		Short:         "Create detailed Jira stories from an implementation plan",
		Args:          cobra.NoArgs,
		Version:       cli.Version,
		SilenceErrors: true,
		RunE:          runE,
	}

	f := cmd.Flags()
	f.String("plan", "", "Path to implementation plan (markdown)")
	f.String("config", "", "Path to Jira config JSON")
	f.String("stages", "", "Comma-separated stage numbers (e.g. 1,2,3)")
	f.String("epic-prefix", creator.DefaultEpicPrefix, "Epic key prefix")
	f.Bool("dry-run", false, "Preview without creating")
	f.StringP("output", "o", "", "Write a run summary to this file (.json, .yaml or .toml)")
	f.BoolP("verbose", "v", false, "Enable verbose/debug output")
	f.BoolP("quiet", "q", false, "Only print failures and warnings")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("config")
	cmd.SetVersionTemplate(cli.VersionString(toolName) + "\n")
	return cmd
}

func main() {
	os.Exit(cli.Report(newRootCmd().Execute()))
}

func runE(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	planPath, _ := cmd.Flags().GetString("plan")
	configPath, _ := cmd.Flags().GetString("config")
	stagesFlag, _ := cmd.Flags().GetString("stages")
	epicPrefix, _ := cmd.Flags().GetString("epic-prefix")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	keep, err := parseStageList(stagesFlag)
	if err != nil {
		return cli.Fail(err)
	}
	if output != "" {
		if _, err := report.FormatFor(output); err != nil {
			return cli.Fail(err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.FailWithHint(err, "pass --config with a JSON file containing a jira section")
	}
	if !dryRun {
		if err := cfg.ValidateJira(); err != nil {
			return cli.FailWithHint(err, "set the jira section in the config file or JIRACTL_JIRA_* environment variables")
		}
	}

	s := cli.Start(toolName, verbose, quiet)
	defer s.Close()
	out := ui.NewPrinter(cmd.OutOrStdout())

	out.Infof("Parsing implementation plan: %s", planPath)
	stages, err := plan.ParseMarkdownFile(planPath)
	if err != nil {
		return cli.Fail(err)
	}
	stages = plan.Filter(stages, keep)

	client := jira.NewClient(cfg.Jira.InstanceURL, cfg.Jira.Email, cfg.Jira.APIToken)
	client.HTTPClient.Timeout = cfg.Jira.Timeout
	client.RetryMaxElapsed = cfg.Jira.RetryMaxElapsed

	sum, err := creator.NewStoryCreator(client, out).Run(s.Ctx, stages, creator.StoryOptions{
		ProjectKey:  cfg.Jira.ProjectKey,
		StoryTypeID: cfg.Jira.StoryTypeID,
		EpicPrefix:  epicPrefix,
		DryRun:      dryRun,
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

// parseStageList parses "1,2, 5" into stage numbers. Empty input means all
// stages.
func parseStageList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid stage number %q in --stages", part)
		}
		out = append(out, n)
	}
	return out, nil
}
