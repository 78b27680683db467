// AngelaMos | 2026
// dto.go

package directory

import (
	"time"

	"github.com/carterperez-dev/flightlog/internal/syllabus"
)

type EntityQuery struct {
	Name string
}

type UserQuery struct {
	Search string
}

type StudentQuery struct {
	Search string
	CfiID  string
}

// StudentLesson is a syllabus lesson joined with one student's progress.
// Lessons without a progress record read as not started.
type StudentLesson struct {
	syllabus.Lesson
	Status      syllabus.Status `json:"status"`
	StatusLabel string          `json:"status_label"`
	Notes       string          `json:"notes"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func joinLesson(l syllabus.Lesson, ul *syllabus.UserLesson) StudentLesson {
	sl := StudentLesson{
		Lesson: l,
		Status: syllabus.StatusNotStarted,
	}
	if ul != nil {
		sl.Status = ul.Status
		sl.Notes = ul.Notes
		updated := ul.UpdatedAt
		sl.UpdatedAt = &updated
	}
	sl.StatusLabel = sl.Status.Label()
	return sl
}
