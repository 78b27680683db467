// AngelaMos | 2026
// school.go

package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/memstore"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// School is a populated in-memory store with two tenants.
//
// Alpha has an admin, an active and a deactivated instructor, and three
// students. Student has finished the first lesson of Syllabus and started
// the second, Student2 shares the syllabus without progress, and
// Unassigned has neither instructor nor syllabus. Bravo has one admin and
// one student. Operator is a global user in its own entity.
type School struct {
	Store *memstore.Store

	Alpha    *entity.Entity
	Bravo    *entity.Entity
	Platform *entity.Entity

	Operator     *user.User
	AlphaAdmin   *user.User
	Cfi          *user.User
	FormerCfi    *user.User
	Student      *user.User
	Student2     *user.User
	Unassigned   *user.User
	BravoAdmin   *user.User
	BravoStudent *user.User

	Syllabus *syllabus.Syllabus
	Lessons  []syllabus.Lesson
}

// StudentPercent is the progress of School.Student.
const StudentPercent = 37.5

func NewSchool(t testing.TB) *School {
	t.Helper()

	ctx := context.Background()
	s := &School{Store: memstore.New()}

	s.Platform = s.entity(t, "Platform Operations", nil)
	s.Alpha = s.entity(t, "Alpha Aviation", intPtr(3))
	s.Bravo = s.entity(t, "Bravo Flight Club", intPtr(2))

	s.Operator = s.user(t, s.Platform, access.PrivilegeGlobal, "Grace", "Operator")
	s.AlphaAdmin = s.user(t, s.Alpha, access.PrivilegeAdmin, "Ada", "Admin")
	s.Cfi = s.user(t, s.Alpha, access.PrivilegeCFI, "Chuck", "Yeager")
	s.FormerCfi = s.user(t, s.Alpha, access.PrivilegeCFI, "Pancho", "Barnes", func(u *user.User) {
		gone := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		u.InactiveDate = &gone
	})

	s.Syllabus = &syllabus.Syllabus{
		ID:       uuid.New().String(),
		EntityID: s.Alpha.ID,
		RatingID: 1,
		Title:    "Private Pilot",
		Version:  1,
	}
	require.NoError(t, s.Store.Syllabi().Create(ctx, s.Syllabus))

	for _, title := range []string{"Pre-solo", "First solo", "Cross country", "Checkride prep"} {
		l := syllabus.Lesson{
			SyllabusID: s.Syllabus.ID,
			Title:      title,
			Objective:  title + " objective",
			Content:    title + " content",
			Completion: title + " completion",
		}
		require.NoError(t, s.Store.Syllabi().CreateLesson(ctx, &l))
		s.Lessons = append(s.Lessons, l)
	}

	assigned := func(u *user.User) {
		u.CfiID = &s.Cfi.ID
		u.SyllabusID = &s.Syllabus.ID
	}
	s.Student = s.user(t, s.Alpha, access.PrivilegeStudent, "Amelia", "Earhart", assigned)
	s.Student2 = s.user(t, s.Alpha, access.PrivilegeStudent, "Bessie", "Coleman", assigned)
	s.Unassigned = s.user(t, s.Alpha, access.PrivilegeStudent, "Wally", "Funk")

	s.BravoAdmin = s.user(t, s.Bravo, access.PrivilegeAdmin, "Bob", "Hoover")
	s.BravoStudent = s.user(t, s.Bravo, access.PrivilegeStudent, "Jerrie", "Mock")

	s.Record(t, s.Student, s.Lessons[0], syllabus.StatusCompleted)
	s.Record(t, s.Student, s.Lessons[1], syllabus.StatusInProgress)

	return s
}

// As returns the identity u authenticates with.
func (s *School) As(u *user.User) access.Identity {
	return access.Identity{
		UserID:    u.ID,
		EntityID:  u.EntityID,
		Privilege: u.Privilege,
	}
}

func (s *School) Record(t testing.TB, student *user.User, l syllabus.Lesson, status syllabus.Status) {
	t.Helper()

	require.NoError(t, s.Store.Progress().Upsert(context.Background(), &syllabus.UserLesson{
		UserID:   student.ID,
		LessonID: l.ID,
		Status:   status,
	}))
}

func (s *School) entity(t testing.TB, name string, subscriptionID *int) *entity.Entity {
	t.Helper()

	e := &entity.Entity{
		ID:             uuid.New().String(),
		Name:           name,
		SubscriptionID: subscriptionID,
	}
	require.NoError(t, s.Store.Entities().Create(context.Background(), e))
	return e
}

func (s *School) user(
	t testing.TB,
	e *entity.Entity,
	privilege access.Privilege,
	first, last string,
	opts ...func(*user.User),
) *user.User {
	t.Helper()

	u := &user.User{
		ID:           uuid.New().String(),
		EntityID:     e.ID,
		Privilege:    privilege,
		FirstName:    first,
		LastName:     last,
		Email:        strings.ToLower(first+"."+last) + "@example.com",
		PasswordHash: "unused",
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, s.Store.Users().Create(context.Background(), u))
	return u
}

func intPtr(v int) *int { return &v }
