package plan

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ### Stage 3: API Development (Week 3-4)
	stageHeadingRe = regexp.MustCompile(`### Stage (\d+): (.+?) \(Week [^\n]*?\)`)
	taskLineRe     = regexp.MustCompile(`^- \[ \] (.+)$`)
)

const tasksMarker = "**Tasks:**"

// ParseMarkdownFile reads an implementation plan from disk and parses it.
func ParseMarkdownFile(path string) ([]Stage, error) {
	data, err := os.ReadFile(path) // #nosec G304 - plan path supplied by the user
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParseMarkdown(string(data)), nil
}

// ParseMarkdown extracts stages from an implementation plan written as
//
//	### Stage N: Name (Week X-Y)
//	...
//	**Tasks:**
//	- [ ] first task
//	- [ ] second task
//	  - [ ] sub-item (ignored)
//
// A stage's section ends at the next "###" heading of any kind. Stages
// without a Tasks marker are skipped.
func ParseMarkdown(content string) []Stage {
	var stages []Stage

	for _, loc := range stageHeadingRe.FindAllStringSubmatchIndex(content, -1) {
		num, err := strconv.Atoi(content[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(content[loc[4]:loc[5]])

		body := content[loc[1]:]
		if next := strings.Index(body, "###"); next >= 0 {
			body = body[:next]
		}

		idx := strings.Index(body, tasksMarker)
		if idx < 0 {
			continue
		}

		stages = append(stages, Stage{
			Number: num,
			Name:   name,
			Tasks:  parseTaskList(body[idx+len(tasksMarker):]),
		})
	}
	return stages
}

func parseTaskList(section string) []string {
	var tasks []string
	sc := bufio.NewScanner(strings.NewReader(section))
	for sc.Scan() {
		m := taskLineRe.FindStringSubmatch(strings.TrimRight(sc.Text(), "\r"))
		if m == nil {
			continue
		}
		if task := strings.TrimSpace(m[1]); task != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
