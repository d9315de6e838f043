package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aura-dev/jiractl/internal/debug"
	"github.com/aura-dev/jiractl/internal/telemetry"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultRetryMaxElapsed = 30 * time.Second
	userAgent              = "jiractl/1.0"
)

// Client provides HTTP access to a Jira instance.
type Client struct {
	URL      string
	Username string
	APIToken string

	HTTPClient *http.Client

	// RetryMaxElapsed bounds the total time spent retrying one request.
	// Zero disables retries.
	RetryMaxElapsed time.Duration

	ops *telemetry.Ops
}

// NewClient creates a new Jira client with a 30s request timeout and
// retries of transient failures.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(url, "/"),
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		RetryMaxElapsed: defaultRetryMaxElapsed,
	}
}

// CreateIssue creates an issue from fields and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]interface{}) (*CreatedIssue, error) {
	data, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	body, err := c.do(ctx, "CreateIssue", http.MethodPost, "/rest/api/3/issue", data)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	var created CreatedIssue
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}
	if created.Key == "" {
		return nil, fmt.Errorf("create issue: response has no key: %s", string(body))
	}
	return &created, nil
}

// CreateEpic creates an epic.
func (c *Client) CreateEpic(ctx context.Context, p EpicParams) (string, error) {
	created, err := c.CreateIssue(ctx, p.Fields())
	if err != nil {
		return "", err
	}
	return created.Key, nil
}

// CreateStory creates a story under its epic.
func (c *Client) CreateStory(ctx context.Context, p StoryParams) (string, error) {
	created, err := c.CreateIssue(ctx, p.Fields())
	if err != nil {
		return "", err
	}
	return created.Key, nil
}

// UpdateIssue updates fields of an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]interface{}) error {
	data, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	if _, err := c.do(ctx, "UpdateIssue", http.MethodPut, "/rest/api/3/issue/"+url.PathEscape(key), data); err != nil {
		return fmt.Errorf("update issue %s: %w", key, err)
	}
	return nil
}

// SetStartDate writes date into the start date custom field of key.
func (c *Client) SetStartDate(ctx context.Context, key, field string, date time.Time) error {
	return c.UpdateIssue(ctx, key, map[string]interface{}{field: date.Format(DateLayout)})
}

// LinkIssues creates a link of linkType where blocker blocks blocked.
func (c *Client) LinkIssues(ctx context.Context, linkType, blocker, blocked string) error {
	data, err := json.Marshal(map[string]interface{}{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  map[string]string{"key": blocker},
		"outwardIssue": map[string]string{"key": blocked},
	})
	if err != nil {
		return fmt.Errorf("marshal link request: %w", err)
	}

	if _, err := c.do(ctx, "LinkIssues", http.MethodPost, "/rest/api/3/issueLink", data); err != nil {
		return fmt.Errorf("link %s blocks %s: %w", blocker, blocked, err)
	}
	return nil
}

// GetIssue fetches a single issue by key. When fields is empty Jira returns
// its default field set.
func (c *Client) GetIssue(ctx context.Context, key string, fields ...string) (*Issue, error) {
	path := "/rest/api/3/issue/" + url.PathEscape(key)
	if len(fields) > 0 {
		path += "?" + url.Values{"fields": {strings.Join(fields, ",")}}.Encode()
	}

	body, err := c.do(ctx, "GetIssue", http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}

	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}
	return &issue, nil
}

// GetTransitions lists the workflow transitions currently available on key.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	body, err := c.do(ctx, "GetTransitions", http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(key)+"/transitions", nil)
	if err != nil {
		return nil, fmt.Errorf("get transitions for %s: %w", key, err)
	}

	var result struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse transitions response: %w", err)
	}
	return result.Transitions, nil
}

// DoTransition applies transition id to key.
func (c *Client) DoTransition(ctx context.Context, key, id string) error {
	data, err := json.Marshal(map[string]interface{}{
		"transition": map[string]string{"id": id},
	})
	if err != nil {
		return fmt.Errorf("marshal transition request: %w", err)
	}

	if _, err := c.do(ctx, "DoTransition", http.MethodPost, "/rest/api/3/issue/"+url.PathEscape(key)+"/transitions", data); err != nil {
		return fmt.Errorf("transition %s: %w", key, err)
	}
	return nil
}

// do sends one API request, retrying transient failures with exponential
// backoff, and records it as a telemetry operation.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	if c.ops == nil {
		c.ops = telemetry.NewOps("github.com/aura-dev/jiractl/jira", "jira")
	}
	ctx, span := c.ops.Start(ctx, op, attribute.String("http.method", method))

	apiURL := c.URL + path
	attempts := 0
	var respBody []byte
	operation := func() error {
		attempts++
		b, err := c.doRequest(ctx, method, apiURL, body)
		if err != nil {
			if isRetryableFor(method, err) {
				debug.Logf("jira: %s %s attempt %d failed: %v\n", method, path, attempts, err)
				return err
			}
			return backoff.Permanent(err)
		}
		respBody = b
		return nil
	}

	var bo backoff.BackOff = &backoff.StopBackOff{}
	if c.RetryMaxElapsed > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 500 * time.Millisecond
		exp.MaxElapsedTime = c.RetryMaxElapsed
		bo = exp
	}
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	span.SetAttributes(attribute.Int("http.attempts", attempts))
	if code := StatusCode(err); code != 0 {
		span.SetAttributes(attribute.Int("http.status_code", code))
	}
	span.End(err)
	return respBody, err
}

// doRequest executes an authenticated HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// PUT and transitions return 204 No Content on success
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			URL:        apiURL,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
// Jira Cloud uses basic auth with email and API token; a token without a
// username is sent as a bearer personal access token.
func (c *Client) setAuth(req *http.Request) {
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}
