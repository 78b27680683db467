// AngelaMos | 2026
// service.go

package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// Config holds the roster counting rule. CountAdminsAsInstructors puts
// admins in the instructor set.
type Config struct {
	CountAdminsAsInstructors bool
}

// Service answers scoped listing queries. Every method takes the caller
// and checks access before touching storage; absence of data yields empty
// results, never an error.
type Service struct {
	entities    entity.Repository
	users       user.Repository
	syllabi     syllabus.Repository
	progress    syllabus.ProgressRepository
	instructors []access.Privilege
}

func NewService(
	cfg Config,
	entities entity.Repository,
	users user.Repository,
	syllabi syllabus.Repository,
	progress syllabus.ProgressRepository,
) *Service {
	return &Service{
		entities:    entities,
		users:       users,
		syllabi:     syllabi,
		progress:    progress,
		instructors: access.Instructors(cfg.CountAdminsAsInstructors),
	}
}

// Instructors returns the privileges counted as instructors.
func (s *Service) Instructors() []access.Privilege {
	return s.instructors
}

// IsInstructor reports whether p belongs to the configured instructor set.
func (s *Service) IsInstructor(p access.Privilege) bool {
	return slices.Contains(s.instructors, p)
}

// ListEntities returns only the caller's own entity unless the caller is
// global, in which case the name filter applies across all tenants.
func (s *Service) ListEntities(
	ctx context.Context,
	caller access.Identity,
	q EntityQuery,
) ([]entity.Summary, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("list entities: %w", core.ErrUnauthorized)
	}

	filter := entity.SummaryFilter{Instructors: s.instructors}

	scope := access.ScopeForEntityQuery(caller)
	if scope.All {
		filter.Name = strings.TrimSpace(q.Name)
	} else {
		filter.EntityID = scope.EntityID
	}

	return s.entities.ListSummaries(ctx, filter)
}

func (s *Service) GetEntitySummary(
	ctx context.Context,
	caller access.Identity,
	entityID string,
) (*entity.Summary, error) {
	if err := access.RequireScope(caller, entityID); err != nil {
		return nil, err
	}

	rows, err := s.entities.ListSummaries(ctx, entity.SummaryFilter{
		EntityID:    entityID,
		Instructors: s.instructors,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("entity %s: %w", entityID, core.ErrNotFound)
	}

	return &rows[0], nil
}

// ListCfis returns the active instructors of entityID.
func (s *Service) ListCfis(
	ctx context.Context,
	caller access.Identity,
	entityID string,
	q UserQuery,
) ([]user.User, error) {
	if err := s.requireRoster(caller, entityID); err != nil {
		return nil, err
	}

	return s.users.List(ctx, user.Filter{
		EntityID:   entityID,
		Privileges: s.instructors,
		ActiveOnly: true,
		Search:     strings.TrimSpace(q.Search),
	})
}

// ListStudents returns the active students of entityID, optionally only
// those assigned to q.CfiID.
func (s *Service) ListStudents(
	ctx context.Context,
	caller access.Identity,
	entityID string,
	q StudentQuery,
) ([]user.User, error) {
	if err := s.requireRoster(caller, entityID); err != nil {
		return nil, err
	}

	return s.users.List(ctx, user.Filter{
		EntityID:   entityID,
		Privileges: []access.Privilege{access.PrivilegeStudent},
		ActiveOnly: true,
		Search:     strings.TrimSpace(q.Search),
		CfiID:      strings.TrimSpace(q.CfiID),
	})
}

func (s *Service) requireRoster(caller access.Identity, entityID string) error {
	if err := access.RequireRole(caller, access.PrivilegeCFI); err != nil {
		return err
	}
	return access.RequireScope(caller, entityID)
}

// User loads userID if caller may view it.
func (s *Service) User(
	ctx context.Context,
	caller access.Identity,
	userID string,
) (*user.User, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("get user: %w", core.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.CanViewUser(caller, u.ID, u.EntityID) {
		return nil, fmt.Errorf("view user %s: %w", userID, core.ErrForbidden)
	}

	return u, nil
}

// GetStudentLessons lists the lessons of the student's assigned syllabus
// in lesson id order with the student's status on each.
func (s *Service) GetStudentLessons(
	ctx context.Context,
	caller access.Identity,
	userID string,
) ([]StudentLesson, error) {
	student, err := s.User(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	return s.LoadStudentLessons(ctx, student)
}

func (s *Service) GetStudentLesson(
	ctx context.Context,
	caller access.Identity,
	userID string,
	lessonID int64,
) (*StudentLesson, error) {
	student, err := s.User(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.syllabi.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if student.SyllabusID == nil || *student.SyllabusID != lesson.SyllabusID {
		return nil, fmt.Errorf(
			"lesson %d not in syllabus of %s: %w",
			lessonID, userID, core.ErrNotFound,
		)
	}

	record, err := s.progress.Get(ctx, student.ID, lesson.ID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	joined := joinLesson(*lesson, record)
	return &joined, nil
}

// LoadStudentLessons joins the student's syllabus with their progress. It
// performs no access check; callers authorize first.
func (s *Service) LoadStudentLessons(
	ctx context.Context,
	student *user.User,
) ([]StudentLesson, error) {
	out := []StudentLesson{}
	if student.SyllabusID == nil {
		return out, nil
	}

	lessons, err := s.syllabi.Lessons(ctx, *student.SyllabusID)
	if err != nil {
		return nil, err
	}

	records, err := s.progress.ListForUser(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	byLesson := make(map[int64]*syllabus.UserLesson, len(records))
	for i := range records {
		byLesson[records[i].LessonID] = &records[i]
	}

	for _, l := range lessons {
		out = append(out, joinLesson(l, byLesson[l.ID]))
	}

	return out, nil
}

// AssignedSyllabus returns the student's syllabus without lessons, or nil
// when none is assigned. No access check.
func (s *Service) AssignedSyllabus(
	ctx context.Context,
	student *user.User,
) (*syllabus.Syllabus, error) {
	if student.SyllabusID == nil {
		return nil, nil
	}

	syl, err := s.syllabi.GetByID(ctx, *student.SyllabusID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return syl, err
}

// ListSyllabi returns every syllabus version of entityID with its lessons.
func (s *Service) ListSyllabi(
	ctx context.Context,
	caller access.Identity,
	entityID string,
) ([]syllabus.Syllabus, error) {
	if err := access.RequireScope(caller, entityID); err != nil {
		return nil, err
	}

	syllabi, err := s.syllabi.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	for i := range syllabi {
		lessons, err := s.syllabi.Lessons(ctx, syllabi[i].ID)
		if err != nil {
			return nil, err
		}
		syllabi[i].Lessons = lessons
	}

	return syllabi, nil
}

func (s *Service) GetSyllabus(
	ctx context.Context,
	caller access.Identity,
	syllabusID string,
) (*syllabus.Syllabus, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("get syllabus: %w", core.ErrUnauthorized)
	}

	syl, err := s.syllabi.GetByID(ctx, syllabusID)
	if err != nil {
		return nil, err
	}

	if err := access.RequireScope(caller, syl.EntityID); err != nil {
		return nil, err
	}

	lessons, err := s.syllabi.Lessons(ctx, syl.ID)
	if err != nil {
		return nil, err
	}
	syl.Lessons = lessons

	return syl, nil
}
