// AngelaMos | 2026
// progress.go

package progress

import (
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
)

// Percent is the weighted completion of statuses on a 0 to 100 scale.
// Completed counts 1, in progress 0.5, not started 0. An empty input is 0.
func Percent(statuses []syllabus.Status) float64 {
	if len(statuses) == 0 {
		return 0
	}

	var sum float64
	for _, st := range statuses {
		sum += st.Weight()
	}

	return sum / float64(len(statuses)) * 100
}

// Mean averages values and returns 0 for an empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// Tally summarizes a student's lesson list.
type Tally struct {
	Completed  int     `json:"completed"`
	InProgress int     `json:"in_progress"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
}

func TallyLessons(lessons []directory.StudentLesson) Tally {
	statuses := make([]syllabus.Status, 0, len(lessons))
	t := Tally{Total: len(lessons)}

	for _, l := range lessons {
		statuses = append(statuses, l.Status)
		switch l.Status {
		case syllabus.StatusCompleted:
			t.Completed++
		case syllabus.StatusInProgress:
			t.InProgress++
		}
	}

	t.Percent = Percent(statuses)
	return t
}
