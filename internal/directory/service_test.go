// AngelaMos | 2026
// service_test.go

package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/testutil"
	"github.com/carterperez-dev/flightlog/internal/user"
)

func newDirectory(s *testutil.School, countAdmins bool) *directory.Service {
	return directory.NewService(
		directory.Config{CountAdminsAsInstructors: countAdmins},
		s.Store.Entities(),
		s.Store.Users(),
		s.Store.Syllabi(),
		s.Store.Progress(),
	)
}

func names(users []user.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FirstName)
	}
	return out
}

func TestListEntitiesScoping(t *testing.T) {
	s := testutil.NewSchool(t)
	dir := newDirectory(s, true)
	ctx := context.Background()

	all, err := dir.ListEntities(ctx, s.As(s.Operator), directory.EntityQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha Aviation", all[0].Name)
	assert.Equal(t, "Bravo Flight Club", all[1].Name)

	filtered, err := dir.ListEntities(ctx, s.As(s.Operator), directory.EntityQuery{Name: " BRAVO "})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, s.Bravo.ID, filtered[0].ID)

	own, err := dir.ListEntities(ctx, s.As(s.AlphaAdmin), directory.EntityQuery{Name: "bravo"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, s.Alpha.ID, own[0].ID)

	_, err = dir.ListEntities(ctx, access.Identity{}, directory.EntityQuery{})
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestEntitySummaryCounts(t *testing.T) {
	s := testutil.NewSchool(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		countAdmins bool
		wantCfis    int
	}{
		{name: "admins count as instructors", countAdmins: true, wantCfis: 2},
		{name: "only cfis count", countAdmins: false, wantCfis: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newDirectory(s, tt.countAdmins)

			sum, err := dir.GetEntitySummary(ctx, s.As(s.Cfi), s.Alpha.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCfis, sum.CfiCount)
			assert.Equal(t, 3, sum.StudentCount)
			require.NotNil(t, sum.SubscriptionLabel)
			assert.Equal(t, "Flight School", *sum.SubscriptionLabel)
		})
	}

	_, err := newDirectory(s, true).GetEntitySummary(ctx, s.As(s.BravoAdmin), s.Alpha.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestListCfisAndStudents(t *testing.T) {
	s := testutil.NewSchool(t)
	dir := newDirectory(s, true)
	ctx := context.Background()

	cfis, err := dir.ListCfis(ctx, s.As(s.AlphaAdmin), s.Alpha.ID, directory.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Chuck"}, names(cfis))

	students, err := dir.ListStudents(ctx, s.As(s.Cfi), s.Alpha.ID, directory.StudentQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bessie", "Amelia", "Wally"}, names(students))

	mine, err := dir.ListStudents(ctx, s.As(s.Cfi), s.Alpha.ID, directory.StudentQuery{CfiID: s.Cfi.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bessie", "Amelia"}, names(mine))

	searched, err := dir.ListStudents(ctx, s.As(s.Cfi), s.Alpha.ID, directory.StudentQuery{Search: "earh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Amelia"}, names(searched))

	_, err = dir.ListStudents(ctx, s.As(s.Student), s.Alpha.ID, directory.StudentQuery{})
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = dir.ListStudents(ctx, s.As(s.BravoAdmin), s.Alpha.ID, directory.StudentQuery{})
	require.ErrorIs(t, err, core.ErrForbidden)

	global, err := dir.ListStudents(ctx, s.As(s.Operator), s.Bravo.ID, directory.StudentQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jerrie"}, names(global))
}

func TestStudentLessons(t *testing.T) {
	s := testutil.NewSchool(t)
	dir := newDirectory(s, true)
	ctx := context.Background()

	lessons, err := dir.GetStudentLessons(ctx, s.As(s.Student), s.Student.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 4)
	assert.Equal(t, syllabus.StatusCompleted, lessons[0].Status)
	assert.Equal(t, syllabus.StatusInProgress, lessons[1].Status)
	assert.Equal(t, "In Progress", lessons[1].StatusLabel)
	assert.Equal(t, syllabus.StatusNotStarted, lessons[2].Status)
	assert.Nil(t, lessons[2].UpdatedAt)
	for i := 1; i < len(lessons); i++ {
		assert.Less(t, lessons[i-1].ID, lessons[i].ID)
	}

	none, err := dir.GetStudentLessons(ctx, s.As(s.Cfi), s.Unassigned.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = dir.GetStudentLessons(ctx, s.As(s.Student2), s.Student.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = dir.GetStudentLessons(ctx, s.As(s.BravoAdmin), s.Student.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestGetStudentLesson(t *testing.T) {
	s := testutil.NewSchool(t)
	dir := newDirectory(s, true)
	ctx := context.Background()

	lesson, err := dir.GetStudentLesson(ctx, s.As(s.Cfi), s.Student.ID, s.Lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, syllabus.StatusCompleted, lesson.Status)
	assert.Equal(t, s.Lessons[0].Title, lesson.Title)

	_, err = dir.GetStudentLesson(ctx, s.As(s.Cfi), s.Unassigned.ID, s.Lessons[0].ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = dir.GetStudentLesson(ctx, s.As(s.Cfi), s.Student.ID, 9999)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestListSyllabiIncludesLessons(t *testing.T) {
	s := testutil.NewSchool(t)
	dir := newDirectory(s, true)
	ctx := context.Background()

	syllabi, err := dir.ListSyllabi(ctx, s.As(s.Student), s.Alpha.ID)
	require.NoError(t, err)
	require.Len(t, syllabi, 1)
	assert.Len(t, syllabi[0].Lessons, 4)

	empty, err := dir.ListSyllabi(ctx, s.As(s.BravoAdmin), s.Bravo.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = dir.GetSyllabus(ctx, s.As(s.BravoAdmin), s.Syllabus.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}
