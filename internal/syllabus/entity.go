// AngelaMos | 2026
// entity.go

package syllabus

import (
	"fmt"
	"strconv"
	"time"
)

// Syllabus is one version of a course. A higher version is stored as a
// new row; older versions stay assigned to the students who have them.
type Syllabus struct {
	ID        string    `db:"id"         json:"id"`
	EntityID  string    `db:"entity_id"  json:"entity_id"`
	RatingID  int       `db:"rating_id"  json:"rating_id"`
	Title     string    `db:"title"      json:"title"`
	Version   float64   `db:"version"    json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Lessons []Lesson `db:"-" json:"lessons,omitempty"`
}

func (s *Syllabus) DisplayName() string {
	return fmt.Sprintf("%s - Version %s", s.Title, strconv.FormatFloat(s.Version, 'f', -1, 64))
}

// Lesson ids are sequential; lesson order is id order.
type Lesson struct {
	ID         int64  `db:"id"          json:"id"`
	SyllabusID string `db:"syllabus_id" json:"syllabus_id"`
	Title      string `db:"title"       json:"title"`
	Objective  string `db:"objective"   json:"objective"`
	Content    string `db:"content"     json:"content"`
	Completion string `db:"completion"  json:"completion"`
}

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Weight is the share of a lesson counted towards progress.
func (s Status) Weight() float64 {
	switch s {
	case StatusCompleted:
		return 1
	case StatusInProgress:
		return 0.5
	}
	return 0
}

func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusInProgress:
		return "In Progress"
	}
	return "Not Started"
}

// UserLesson is a student's record for one lesson. At most one exists per
// (user, lesson); it is created on first write.
type UserLesson struct {
	ID        int64     `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"user_id"`
	LessonID  int64     `db:"lesson_id"  json:"lesson_id"`
	Status    Status    `db:"status"     json:"status"`
	Notes     string    `db:"notes"      json:"notes"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
