package jira

import (
	"fmt"
	"strings"
)

// BrowseURL is the web URL of an issue.
func BrowseURL(baseURL, key string) string {
	return fmt.Sprintf("%s/browse/%s", strings.TrimSuffix(baseURL, "/"), key)
}

// ProjectURL is the Jira Software project page.
func ProjectURL(baseURL, projectKey string) string {
	return fmt.Sprintf("%s/jira/software/projects/%s", strings.TrimSuffix(baseURL, "/"), projectKey)
}

// RoadmapURL is the project's timeline view, where epic dates and
// dependencies are visible.
func RoadmapURL(baseURL, projectKey string) string {
	return fmt.Sprintf("%s/jira/software/c/projects/%s/roadmap", strings.TrimSuffix(baseURL, "/"), projectKey)
}

// ExtractJiraKey extracts the Jira issue key from a browse URL.
// For example, "https://company.atlassian.net/browse/PROJ-123" returns "PROJ-123".
// Input without "/browse/" is returned unchanged.
func ExtractJiraKey(ref string) string {
	idx := strings.LastIndex(ref, "/browse/")
	if idx == -1 {
		return ref
	}
	key := ref[idx+len("/browse/"):]
	if i := strings.IndexAny(key, "?#/"); i >= 0 {
		key = key[:i]
	}
	return key
}
