// Command jira-update moves a Jira story to a new status and cascades the
// change to its subtasks and linked test cases.
//
// Credentials come from JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN (a .env
// file in the working directory is loaded first), or from --config.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aura-dev/jiractl/internal/cli"
	"github.com/aura-dev/jiractl/internal/config"
	"github.com/aura-dev/jiractl/internal/jira"
	"github.com/aura-dev/jiractl/internal/status"
	"github.com/aura-dev/jiractl/internal/ui"
)

const toolName = "jira-update"

const credentialsHint = `set the following environment variables (or put them in .env):
  export JIRA_BASE_URL='https://your-company.atlassian.net'
  export JIRA_EMAIL='your.email@company.com'
  export JIRA_API_TOKEN='your-api-token'`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   toolName + " STORY-KEY STATUS",
		Short: "Update a story and its test cases to a new status",
		Long: `Transitions STORY-KEY to STATUS, then every subtask and linked test case.

Supported statuses:
  Done         (shortcuts: done, complete, completed)
  In Progress  (shortcuts: progress, started, start, working)
  Not Needed   (shortcuts: cancel, cancelled, skip)

Any other status name is passed through to the workflow as-is.`,
		Example:       "  " + toolName + " AURA-21 done",
		Args:          cobra.ExactArgs(2),
		Version:       cli.Version,
		SilenceErrors: true,
		RunE:          runE,
	}

	f := cmd.Flags()
	f.String("config", "", "Read Jira credentials from this config JSON instead of the environment")
	f.String("env-file", ".env", "Load environment variables from this file if it exists")
	f.Bool("dry-run", false, "Show planned transitions without applying them")
	f.Bool("json", false, "Print the result as JSON on stdout; narration goes to stderr")
	f.BoolP("verbose", "v", false, "Enable verbose/debug output")
	f.BoolP("quiet", "q", false, "Only print failures and warnings")
	cmd.SetVersionTemplate(cli.VersionString(toolName) + "\n")
	return cmd
}

func main() {
	os.Exit(cli.Report(newRootCmd().Execute()))
}

func runE(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOut, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	key := jira.ExtractJiraKey(args[0])
	target := status.NormalizeStatus(args[1])

	creds, err := loadCredentials(configPath, envFile)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			return cli.FailWithHint(err, credentialsHint)
		}
		return cli.Fail(err)
	}

	s := cli.Start(toolName, verbose, quiet)
	defer s.Close()

	narration := cmd.OutOrStdout()
	if jsonOut {
		narration = cmd.ErrOrStderr()
	}
	out := ui.NewPrinter(narration)

	client := jira.NewClient(creds.BaseURL, creds.Email, creds.APIToken)
	engine := status.NewEngine(client, out)
	engine.DryRun = dryRun

	res, err := engine.UpdateStory(s.Ctx, key, target)
	if err != nil {
		return cli.Fail(err)
	}

	if jsonOut {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return cli.Failf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	out.Blank()
	if !res.OK() {
		out.Failf("Update Failed")
		return cli.Silent(1)
	}
	out.Passf("Update Complete!")
	out.Blank()
	out.Infof("View in Jira: %s", jira.BrowseURL(creds.BaseURL, key))
	return nil
}

// loadCredentials prefers --config when given; otherwise it loads envFile
// and reads the JIRA_* variables.
func loadCredentials(configPath, envFile string) (*config.Credentials, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if cfg.Jira.InstanceURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
			return nil, fmt.Errorf("%w: jira.instanceUrl, jira.email and jira.apiToken must be set in %s", config.ErrMissingCredentials, configPath)
		}
		return &config.Credentials{BaseURL: cfg.Jira.InstanceURL, Email: cfg.Jira.Email, APIToken: cfg.Jira.APIToken}, nil
	}
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			cli.WarnError("%v", err)
		}
	}
	return config.LoadCredentials()
}
