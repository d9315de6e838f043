package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

type callLog struct {
	mu   sync.Mutex
	list []recorded
}

func (l *callLog) all() []recorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recorded(nil), l.list...)
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *callLog) {
	t.Helper()
	calls := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		calls.mu.Lock()
		calls.list = append(calls.list, rec)
		calls.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", "dev@example.com", "token")
	c.RetryMaxElapsed = 2 * time.Second
	return c, calls
}

func TestCreateEpic(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10001","key":"AURA-1","self":"x"}`))
	})

	key, err := c.CreateEpic(context.Background(), EpicParams{
		ProjectKey:  "AURA",
		Summary:     "STAGE-001: Foundation",
		Description: "Set things up",
		Labels:      []string{"stage-001", "stage"},
		IssueTypeID: "10000",
		PriorityID:  "1",
		Due:         time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "AURA-1", key)

	require.Len(t, calls.all(), 1)
	call := calls.all()[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/rest/api/3/issue", call.path)
	assert.Equal(t, "Basic ZGV2QGV4YW1wbGUuY29tOnRva2Vu", call.auth)

	fields := call.body["fields"].(map[string]interface{})
	assert.Equal(t, "STAGE-001: Foundation", fields["summary"])
	assert.Equal(t, "2025-01-12", fields["duedate"])
	assert.Equal(t, map[string]interface{}{"id": "10000"}, fields["issuetype"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, fields["priority"])
	assert.Equal(t, map[string]interface{}{"key": "AURA"}, fields["project"])
	assert.Equal(t, []interface{}{"stage-001", "stage"}, fields["labels"])
	assert.Equal(t, "doc", fields["description"].(map[string]interface{})["type"])
}

func TestCreateStoryHasParent(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key":"AURA-20"}`))
	})

	key, err := c.CreateStory(context.Background(), StoryParams{
		ProjectKey:  "AURA",
		EpicKey:     "AURA-1",
		Summary:     "Install nginx",
		Description: SectionsToADF([]Section{{Heading: "User Story", Body: "x"}}),
		IssueTypeID: "10006",
	})
	require.NoError(t, err)
	assert.Equal(t, "AURA-20", key)

	fields := calls.all()[0].body["fields"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"key": "AURA-1"}, fields["parent"])
	assert.NotContains(t, fields, "labels")
}

func TestCreateIssueWithoutKey(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{}}`))
	})
	_, err := c.CreateIssue(context.Background(), map[string]interface{}{})
	assert.Error(t, err)
}

func TestSetStartDateAndLink(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.SetStartDate(ctx, "AURA-2", "customfield_10015", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, c.LinkIssues(ctx, "Blocks", "AURA-1", "AURA-2"))

	require.Len(t, calls.all(), 2)
	assert.Equal(t, http.MethodPut, calls.all()[0].method)
	assert.Equal(t, "/rest/api/3/issue/AURA-2", calls.all()[0].path)
	assert.Equal(t, map[string]interface{}{"customfield_10015": "2025-01-06"}, calls.all()[0].body["fields"])

	link := calls.all()[1]
	assert.Equal(t, "/rest/api/3/issueLink", link.path)
	assert.Equal(t, map[string]interface{}{"name": "Blocks"}, link.body["type"])
	assert.Equal(t, map[string]interface{}{"key": "AURA-1"}, link.body["inwardIssue"])
	assert.Equal(t, map[string]interface{}{"key": "AURA-2"}, link.body["outwardIssue"])
}

func TestGetIssueWithLinks(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"key": "AURA-5",
			"fields": {
				"summary": "Login",
				"status": {"name": "To Do"},
				"issuetype": {"name": "Story"},
				"subtasks": [{"key": "AURA-6", "fields": {"summary": "sub", "status": {"name": "To Do"}}}],
				"issuelinks": [
					{"type": {"name": "Tests"}, "inwardIssue": {"key": "TC-1", "fields": {"status": {"name": "Open"}, "issuetype": {"name": "Test Case"}}}},
					{"type": {"name": "Blocks"}, "outwardIssue": {"key": "AURA-9"}}
				]
			}
		}`))
	})

	issue, err := c.GetIssue(context.Background(), "AURA-5", "summary", "status", "issuelinks")
	require.NoError(t, err)
	assert.Equal(t, "fields=summary%2Cstatus%2Cissuelinks", calls.all()[0].query)
	assert.Equal(t, "To Do", issue.StatusName())
	assert.Equal(t, "Story", issue.TypeName())
	require.Len(t, issue.Fields.Subtasks, 1)
	require.Len(t, issue.Fields.IssueLinks, 2)
	assert.Equal(t, "TC-1", issue.Fields.IssueLinks[0].Other().Key)
	assert.Equal(t, "Test Case", issue.Fields.IssueLinks[0].Other().TypeName())
	assert.Equal(t, "AURA-9", issue.Fields.IssueLinks[1].Other().Key)
}

func TestTransitions(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"transitions":[{"id":"11","name":"Start Progress"},{"id":"31","name":"Done"}]}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	ts, err := c.GetTransitions(ctx, "AURA-5")
	require.NoError(t, err)
	assert.Equal(t, []Transition{{ID: "11", Name: "Start Progress"}, {ID: "31", Name: "Done"}}, ts)

	require.NoError(t, c.DoTransition(ctx, "AURA-5", "31"))
	assert.Equal(t, "/rest/api/3/issue/AURA-5/transitions", calls.all()[1].path)
	assert.Equal(t, map[string]interface{}{"id": "31"}, calls.all()[1].body["transition"])
}

func TestRetryOnTransientErrors(t *testing.T) {
	var n int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"key":"AURA-5","fields":{"status":{"name":"Done"}}}`))
	})

	issue, err := c.GetIssue(context.Background(), "AURA-5", "status")
	require.NoError(t, err)
	assert.Equal(t, "Done", issue.StatusName())
	assert.Equal(t, int32(3), atomic.LoadInt32(&n))
}

func TestNoRetryOnClientError(t *testing.T) {
	var n int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	})

	_, err := c.GetIssue(context.Background(), "NOPE-1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Issue does not exist")
	assert.Equal(t, int32(1), atomic.LoadInt32(&n))
}

func TestPostNotRetriedOnServerError(t *testing.T) {
	var n int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.LinkIssues(context.Background(), "Blocks", "A-1", "A-2")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&n))
}

func TestRetryDisabled(t *testing.T) {
	var n int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c.RetryMaxElapsed = 0

	_, err := c.GetTransitions(context.Background(), "AURA-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&n))
}

func TestBearerAuthWithoutUsername(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c.Username = ""
	require.NoError(t, c.UpdateIssue(context.Background(), "A-1", map[string]interface{}{"summary": "x"}))
	assert.Equal(t, "Bearer token", calls.all()[0].auth)
}

func TestMissingConfiguration(t *testing.T) {
	c := NewClient("", "", "")
	_, err := c.GetIssue(context.Background(), "A-1")
	assert.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(&APIError{StatusCode: 429}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 503}))
	assert.False(t, IsRetryable(&APIError{StatusCode: 400}))
	assert.True(t, isRetryableFor(http.MethodPost, &APIError{StatusCode: 429}))
	assert.False(t, isRetryableFor(http.MethodPost, &APIError{StatusCode: 500}))
}

func TestAPIErrorBodyTruncation(t *testing.T) {
	err := &APIError{Method: http.MethodGet, URL: "/x", StatusCode: 500, Body: strings.Repeat("é", 600)}
	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, strings.Repeat("é", 500)+"..."))

	short := &APIError{Method: http.MethodGet, URL: "/x", StatusCode: 400, Body: "bad"}
	assert.Equal(t, "jira API GET /x returned 400: bad", short.Error())
}
