// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type StudentProgress struct {
	Student user.UserResponse `json:"student"`
	Tally
}

// Overview is the mean progress over a set of students plus the rows it
// was computed from.
type Overview struct {
	Overall  float64           `json:"overall"`
	Students []StudentProgress `json:"students"`
}

// ReportLine is one lesson row of a printable student report.
type ReportLine struct {
	LessonID    int64  `json:"lesson_id"`
	Title       string `json:"title"`
	Objective   string `json:"objective"`
	Completion  string `json:"completion"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Notes       string `json:"notes"`
}

// Report is the input a document generator needs for one student.
type Report struct {
	Student     user.UserResponse `json:"student"`
	Syllabus    *string           `json:"syllabus,omitempty"`
	Lessons     []ReportLine      `json:"lessons"`
	Tally       Tally             `json:"tally"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Service computes read-only completion figures on top of the directory.
type Service struct {
	directory *directory.Service
	now       func() time.Time
}

func NewService(dir *directory.Service) *Service {
	return &Service{
		directory: dir,
		now:       time.Now,
	}
}

func (s *Service) StudentProgress(
	ctx context.Context,
	caller access.Identity,
	userID string,
) (*StudentProgress, error) {
	student, err := s.directory.User(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	row, err := s.progressFor(ctx, student)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// EntityOverallProgress averages progress across the active students of
// entityID. No students means 0.
func (s *Service) EntityOverallProgress(
	ctx context.Context,
	caller access.Identity,
	entityID string,
) (*Overview, error) {
	students, err := s.directory.ListStudents(ctx, caller, entityID, directory.StudentQuery{})
	if err != nil {
		return nil, err
	}

	return s.overview(ctx, students)
}

// RosterProgress averages progress across the active students assigned to
// the instructor cfiID.
func (s *Service) RosterProgress(
	ctx context.Context,
	caller access.Identity,
	cfiID string,
) (*Overview, error) {
	cfi, err := s.directory.User(ctx, caller, cfiID)
	if err != nil {
		return nil, err
	}

	students, err := s.directory.ListStudents(ctx, caller, cfi.EntityID, directory.StudentQuery{
		CfiID: cfi.ID,
	})
	if err != nil {
		return nil, err
	}

	return s.overview(ctx, students)
}

// Overview computes progress rows for students that the caller has
// already been authorized to see.
func (s *Service) Overview(ctx context.Context, students []user.User) (*Overview, error) {
	return s.overview(ctx, students)
}

func (s *Service) StudentReport(
	ctx context.Context,
	caller access.Identity,
	userID string,
) (*Report, error) {
	student, err := s.directory.User(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.directory.LoadStudentLessons(ctx, student)
	if err != nil {
		return nil, err
	}

	syl, err := s.directory.AssignedSyllabus(ctx, student)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Student:     user.ToUserResponse(student),
		Lessons:     make([]ReportLine, 0, len(lessons)),
		Tally:       TallyLessons(lessons),
		GeneratedAt: s.now().UTC(),
	}

	if syl != nil {
		name := syl.DisplayName()
		report.Syllabus = &name
	}

	for _, l := range lessons {
		report.Lessons = append(report.Lessons, ReportLine{
			LessonID:    l.ID,
			Title:       l.Title,
			Objective:   l.Objective,
			Completion:  l.Completion,
			Status:      string(l.Status),
			StatusLabel: l.StatusLabel,
			Notes:       l.Notes,
		})
	}

	return report, nil
}

func (s *Service) overview(ctx context.Context, students []user.User) (*Overview, error) {
	out := &Overview{Students: make([]StudentProgress, 0, len(students))}
	percents := make([]float64, 0, len(students))

	for i := range students {
		row, err := s.progressFor(ctx, &students[i])
		if err != nil {
			return nil, err
		}
		out.Students = append(out.Students, row)
		percents = append(percents, row.Percent)
	}

	out.Overall = Mean(percents)
	return out, nil
}

func (s *Service) progressFor(ctx context.Context, student *user.User) (StudentProgress, error) {
	lessons, err := s.directory.LoadStudentLessons(ctx, student)
	if err != nil {
		return StudentProgress{}, err
	}

	return StudentProgress{
		Student: user.ToUserResponse(student),
		Tally:   TallyLessons(lessons),
	}, nil
}
