package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerDaysPerStage(t *testing.T) {
	tests := []struct {
		compression int
		want        int
	}{
		{0, 7},
		{1, 7},
		{2, 3},
		{3, 2},
		{7, 1},
		{10, 1},
	}
	for _, tt := range tests {
		s := NewScheduler(time.Now(), tt.compression)
		assert.Equal(t, tt.want, s.DaysPerStage(), "compression %d", tt.compression)
	}
}

func TestSchedulerWindow(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	s := NewScheduler(start, 1)

	st, due := s.Window(1)
	assert.Equal(t, "2025-01-06", st.Format("2006-01-02"))
	assert.Equal(t, "2025-01-12", due.Format("2006-01-02"))

	st, due = s.Window(3)
	assert.Equal(t, "2025-01-20", st.Format("2006-01-02"))
	assert.Equal(t, "2025-01-26", due.Format("2006-01-02"))
}

func TestSchedulerWindowsContiguous(t *testing.T) {
	start := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	for _, c := range []int{1, 2, 3, 4, 7, 14} {
		s := NewScheduler(start, c)
		days := s.DaysPerStage()
		for n := 1; n < 15; n++ {
			st, due := s.Window(n)
			nextStart, _ := s.Window(n + 1)

			assert.Equal(t, days-1, int(due.Sub(st).Hours()/24), "compression %d stage %d length", c, n)
			assert.Equal(t, due.AddDate(0, 0, 1), nextStart, "compression %d: stage %d and %d must touch", c, n, n+1)
		}
	}
}
