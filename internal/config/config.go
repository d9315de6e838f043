// Package config loads the JSON configuration shared by the jiractl tools.
//
// The file is read with viper after ${VAR} references are substituted from
// the environment. Every key can also be overridden by an environment
// variable with the JIRACTL_ prefix, e.g. JIRACTL_JIRA_PROJECTKEY.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides of config keys.
const EnvPrefix = "JIRACTL"

// ErrMissingConfig is returned when required configuration keys are empty.
var ErrMissingConfig = errors.New("missing required configuration")

// Config is the parsed configuration file.
type Config struct {
	Jira      JiraConfig      `mapstructure:"jira"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Timeline  TimelineConfig  `mapstructure:"timeline"`
	Options   OptionsConfig   `mapstructure:"options"`
}

// JiraConfig holds the Jira connection and field settings.
type JiraConfig struct {
	InstanceURL     string        `mapstructure:"instanceUrl"`
	Email           string        `mapstructure:"email"`
	APIToken        string        `mapstructure:"apiToken"`
	ProjectKey      string        `mapstructure:"projectKey"`
	StoryTypeID     string        `mapstructure:"storyTypeId"`
	EpicTypeID      string        `mapstructure:"epicTypeId"`
	EpicPriorityID  string        `mapstructure:"epicPriorityId"`
	StartDateField  string        `mapstructure:"startDateField"`
	LinkType        string        `mapstructure:"linkType"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RetryMaxElapsed time.Duration `mapstructure:"retryMaxElapsed"`
}

// AnthropicConfig configures the plan generator. An empty APIKey disables
// AI planning.
type AnthropicConfig struct {
	APIKey    string `mapstructure:"apiKey"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"maxTokens"`
}

// TimelineConfig controls epic scheduling.
type TimelineConfig struct {
	StartDate         string `mapstructure:"startDate"`
	CompressionFactor int    `mapstructure:"compressionFactor"`
}

// OptionsConfig holds behaviour toggles.
type OptionsConfig struct {
	AddDependencies bool `mapstructure:"addDependencies"`
}

// Defaults
const (
	DefaultStoryTypeID    = "10006"
	DefaultEpicTypeID     = "10000"
	DefaultEpicPriorityID = "1"
	DefaultStartDateField = "customfield_10015"
	DefaultLinkType       = "Blocks"
	DefaultModel          = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens      = 16000
	DefaultTimeout        = 30 * time.Second
	DefaultRetryElapsed   = 30 * time.Second
)

var defaults = map[string]interface{}{
	"jira.instanceUrl":           "",
	"jira.email":                 "",
	"jira.apiToken":              "",
	"jira.projectKey":            "",
	"jira.storyTypeId":           DefaultStoryTypeID,
	"jira.epicTypeId":            DefaultEpicTypeID,
	"jira.epicPriorityId":        DefaultEpicPriorityID,
	"jira.startDateField":        DefaultStartDateField,
	"jira.linkType":              DefaultLinkType,
	"jira.timeout":               DefaultTimeout,
	"jira.retryMaxElapsed":       DefaultRetryElapsed,
	"anthropic.apiKey":           "",
	"anthropic.model":            DefaultModel,
	"anthropic.maxTokens":        DefaultMaxTokens,
	"timeline.startDate":         "",
	"timeline.compressionFactor": 1,
	"options.addDependencies":    true,
}

// envRefRe matches ${NAME} references. Bare $NAME is left alone because API
// tokens may legitimately contain dollar signs.
var envRefRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvRefs replaces ${NAME} with the JSON-escaped value of the
// environment variable NAME (empty when unset).
func ExpandEnvRefs(raw []byte) []byte {
	return envRefRe.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := string(envRefRe.FindSubmatch(m)[1])
		quoted, _ := json.Marshal(os.Getenv(name))
		return quoted[1 : len(quoted)-1]
	})
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path) // #nosec G304 - config path supplied by the user
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse parses configuration JSON, applying env substitution, defaults and
// JIRACTL_* overrides.
func Parse(raw []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(ExpandEnvRefs(raw))); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Jira.InstanceURL = strings.TrimSuffix(cfg.Jira.InstanceURL, "/")
	if cfg.Timeline.CompressionFactor < 1 {
		cfg.Timeline.CompressionFactor = 1
	}
	return &cfg, nil
}

// ValidateJira checks that the Jira connection settings needed to create
// issues are present.
func (c *Config) ValidateJira() error {
	var missing []string
	for key, val := range map[string]string{
		"jira.instanceUrl": c.Jira.InstanceURL,
		"jira.email":       c.Jira.Email,
		"jira.apiToken":    c.Jira.APIToken,
		"jira.projectKey":  c.Jira.ProjectKey,
	} {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateTimeline checks that a start date is configured.
func (c *Config) ValidateTimeline() error {
	if strings.TrimSpace(c.Timeline.StartDate) == "" {
		return fmt.Errorf("%w: timeline.startDate (or pass --start-date)", ErrMissingConfig)
	}
	return nil
}

// AIEnabled reports whether an Anthropic API key is configured.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.Anthropic.APIKey) != ""
}
