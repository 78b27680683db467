// AngelaMos | 2026
// progress_test.go

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		statuses []syllabus.Status
		want     float64
	}{
		{name: "empty", statuses: nil, want: 0},
		{name: "nothing started", statuses: []syllabus.Status{syllabus.StatusNotStarted, syllabus.StatusNotStarted}, want: 0},
		{name: "half credit", statuses: []syllabus.Status{syllabus.StatusInProgress}, want: 50},
		{name: "mixed", statuses: []syllabus.Status{
			syllabus.StatusCompleted,
			syllabus.StatusInProgress,
			syllabus.StatusNotStarted,
			syllabus.StatusNotStarted,
		}, want: 37.5},
		{name: "all done", statuses: []syllabus.Status{syllabus.StatusCompleted, syllabus.StatusCompleted}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percent(tt.statuses), 1e-9)
		})
	}
}

func TestPercentIsMonotonic(t *testing.T) {
	statuses := []syllabus.Status{
		syllabus.StatusNotStarted,
		syllabus.StatusNotStarted,
		syllabus.StatusNotStarted,
	}
	steps := []syllabus.Status{syllabus.StatusInProgress, syllabus.StatusCompleted}

	prev := Percent(statuses)
	for i := range statuses {
		for _, next := range steps {
			statuses[i] = next
			got := Percent(statuses)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	}
	assert.InDelta(t, 100, prev, 1e-9)
}

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 12.5, Mean([]float64{37.5, 0, 0}), 1e-9)
}

func TestTallyLessons(t *testing.T) {
	lessons := []directory.StudentLesson{
		{Status: syllabus.StatusCompleted},
		{Status: syllabus.StatusInProgress},
		{Status: syllabus.StatusInProgress},
		{Status: syllabus.StatusNotStarted},
	}

	got := TallyLessons(lessons)
	assert.Equal(t, Tally{Completed: 1, InProgress: 2, Total: 4, Percent: 50}, got)

	assert.Equal(t, Tally{}, TallyLessons(nil))
}
