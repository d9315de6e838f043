package specdoc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aura-dev/jiractl/internal/plan"
)

var (
	projectNameRe  = regexp.MustCompile(`(?i)Project[:\s]+([^\n]+)`)
	timelineRe     = regexp.MustCompile(`(?i)(\d+)[-–]?(\d+)?\s*weeks?`)
	stageHeadingRe = regexp.MustCompile(`(?i)^(?:Stage|Epic)[\s-]*(\d+)[:\s]+(.+)`)
)

// ProjectInfo is the project-level metadata found in a specification.
type ProjectInfo struct {
	Name          string `json:"name"`
	TimelineWeeks int    `json:"timeline_weeks"`
}

// ExtractProjectInfo finds the "Project: <name>" line and the first
// "N weeks" / "N-M weeks" span, taking the upper bound of a range.
func ExtractProjectInfo(paragraphs []string) ProjectInfo {
	var info ProjectInfo
	text := Text(paragraphs)

	if m := projectNameRe.FindStringSubmatch(text); m != nil {
		info.Name = strings.TrimSpace(m[1])
	}

	if m := timelineRe.FindStringSubmatch(text); m != nil {
		weeks := m[1]
		if m[2] != "" {
			weeks = m[2]
		}
		info.TimelineWeeks, _ = strconv.Atoi(weeks)
	}
	return info
}

// ExtractStages scans paragraphs for "Stage N: Name" or "Epic N: Name"
// headings. Lines under a heading are classified until the next heading:
// bullets ("- [ ] x" or "- x") become tasks, lines mentioning weeks or days
// become the timeline, everything else is appended to the description.
// Text before the first heading is ignored. Repeated headings are merged
// and the result is ordered by stage number (see plan.Merge).
func ExtractStages(paragraphs []string) []plan.Stage {
	var (
		stages  []plan.Stage
		current *plan.Stage
	)

	for _, para := range paragraphs {
		text := strings.TrimSpace(para)

		if m := stageHeadingRe.FindStringSubmatch(text); m != nil {
			if current != nil {
				stages = append(stages, *current)
			}
			num, _ := strconv.Atoi(m[1])
			current = &plan.Stage{
				Number: num,
				Name:   strings.TrimSpace(m[2]),
				Tasks:  []string{},
			}
			continue
		}
		if current == nil {
			continue
		}

		lower := strings.ToLower(text)
		switch {
		case strings.HasPrefix(text, "-"):
			current.Tasks = append(current.Tasks, trimBullet(text))
		case strings.Contains(lower, "week") || strings.Contains(lower, "day"):
			current.Timeline = text
		default:
			current.Description += text + "\n"
		}
	}
	if current != nil {
		stages = append(stages, *current)
	}
	return plan.Merge(stages)
}

// trimBullet strips leading bullet and checkbox characters ("- [ ] ").
func trimBullet(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "- []"))
}
