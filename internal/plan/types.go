// Package plan holds the stage model shared by the spec parser, the AI
// planner and the issue creators, plus the scheduling and dependency rules
// applied to it.
package plan

import (
	"fmt"
	"sort"
)

// Stage is one numbered phase of a project. Each stage becomes a Jira epic
// and each task a story under it.
type Stage struct {
	Number       int      `json:"number"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tasks        []string `json:"tasks,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Dependencies []int    `json:"dependencies,omitempty"`
}

// Label returns the stage label used on epics and stories, e.g. "stage-003".
func (s Stage) Label() string {
	return fmt.Sprintf("stage-%03d", s.Number)
}

// Summary returns the epic summary, e.g. "STAGE-003: API".
func (s Stage) Summary() string {
	return fmt.Sprintf("STAGE-%03d: %s", s.Number, s.Name)
}

// Filter returns the stages whose numbers are in keep, preserving order.
// A nil or empty keep returns stages unchanged.
func Filter(stages []Stage, keep []int) []Stage {
	if len(keep) == 0 {
		return stages
	}
	want := make(map[int]bool, len(keep))
	for _, n := range keep {
		want[n] = true
	}
	var out []Stage
	for _, s := range stages {
		if want[s.Number] {
			out = append(out, s)
		}
	}
	return out
}

// Numbers returns the stage numbers in list order.
func Numbers(stages []Stage) []int {
	out := make([]int, len(stages))
	for i, s := range stages {
		out[i] = s.Number
	}
	return out
}

// Validate checks the structural invariants every stage list must hold:
// positive unique numbers, non-empty names, and dependencies that only
// point to lower-numbered stages present in the list.
func Validate(stages []Stage) error {
	seen := make(map[int]bool, len(stages))
	for _, s := range stages {
		if s.Number < 1 {
			return fmt.Errorf("stage %q: number must be >= 1, got %d", s.Name, s.Number)
		}
		if s.Name == "" {
			return fmt.Errorf("stage %d: empty name", s.Number)
		}
		if seen[s.Number] {
			return fmt.Errorf("stage %d: duplicate stage number", s.Number)
		}
		seen[s.Number] = true
	}
	for _, s := range stages {
		for _, d := range s.Dependencies {
			if d >= s.Number {
				return fmt.Errorf("stage %d: dependency on stage %d does not point to an earlier stage", s.Number, d)
			}
			if !seen[d] {
				return fmt.Errorf("stage %d: dependency on unknown stage %d", s.Number, d)
			}
		}
	}
	return nil
}

// Merge collapses stages that share a number and returns them sorted by
// number. Documents often list every stage heading twice (an overview, then
// the body); a later occurrence replaces an earlier one unless it has no
// description, tasks or timeline of its own.
func Merge(stages []Stage) []Stage {
	index := make(map[int]int, len(stages))
	var out []Stage
	for _, s := range stages {
		i, dup := index[s.Number]
		if !dup {
			index[s.Number] = len(out)
			out = append(out, s)
			continue
		}
		if !s.empty() || out[i].empty() {
			out[i] = s
		}
	}
	SortByNumber(out)
	return out
}

func (s Stage) empty() bool {
	return s.Description == "" && s.Timeline == "" && len(s.Tasks) == 0
}

// SortByNumber orders stages by stage number in place.
func SortByNumber(stages []Stage) {
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Number < stages[j].Number })
}
