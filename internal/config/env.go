package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when Jira credentials are not set in the
// environment.
var ErrMissingCredentials = errors.New("missing Jira credentials")

// Credentials are the Jira connection settings read from the environment by
// jira-update.
type Credentials struct {
	BaseURL  string `envconfig:"JIRA_BASE_URL" required:"true"`
	Email    string `envconfig:"JIRA_EMAIL" required:"true"`
	APIToken string `envconfig:"JIRA_API_TOKEN" required:"true"`
}

// LoadCredentials reads JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN.
func LoadCredentials() (*Credentials, error) {
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	for name, v := range map[string]string{
		"JIRA_BASE_URL":  c.BaseURL,
		"JIRA_EMAIL":     c.Email,
		"JIRA_API_TOKEN": c.APIToken,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrMissingCredentials, name)
		}
	}
	return &c, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	// viper lower-cases keys; recover the original names from the file keys
	// by upper-casing, which matches the usual env naming.
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}
