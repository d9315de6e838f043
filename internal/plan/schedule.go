package plan

import "time"

// DaysPerWeek is the nominal stage length before compression.
const DaysPerWeek = 7

// Scheduler allocates each stage a fixed-length window, stacking windows
// back-to-back in stage-number order. It ignores weekends, holidays and
// dependencies.
type Scheduler struct {
	Start       time.Time
	Compression int
}

// NewScheduler returns a Scheduler starting at start. A compression factor
// below 1 is treated as 1.
func NewScheduler(start time.Time, compression int) Scheduler {
	if compression < 1 {
		compression = 1
	}
	return Scheduler{Start: start, Compression: compression}
}

// DaysPerStage is max(1, 7 / compression) using integer division.
func (s Scheduler) DaysPerStage() int {
	c := s.Compression
	if c < 1 {
		c = 1
	}
	days := DaysPerWeek / c
	if days < 1 {
		days = 1
	}
	return days
}

// Window returns the start and due date (inclusive) for a stage number.
func (s Scheduler) Window(stageNumber int) (start, due time.Time) {
	days := s.DaysPerStage()
	start = s.Start.AddDate(0, 0, (stageNumber-1)*days)
	due = start.AddDate(0, 0, days-1)
	return start, due
}
