// AngelaMos | 2026
// service_test.go

package progress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/progress"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/testutil"
)

func newProgress(s *testutil.School) *progress.Service {
	return progress.NewService(directory.NewService(
		directory.Config{CountAdminsAsInstructors: true},
		s.Store.Entities(),
		s.Store.Users(),
		s.Store.Syllabi(),
		s.Store.Progress(),
	))
}

func TestStudentProgress(t *testing.T) {
	s := testutil.NewSchool(t)
	svc := newProgress(s)
	ctx := context.Background()

	row, err := svc.StudentProgress(ctx, s.As(s.Student), s.Student.ID)
	require.NoError(t, err)
	assert.InDelta(t, testutil.StudentPercent, row.Percent, 1e-9)
	assert.Equal(t, 1, row.Completed)
	assert.Equal(t, 1, row.InProgress)
	assert.Equal(t, 4, row.Total)

	unassigned, err := svc.StudentProgress(ctx, s.As(s.Cfi), s.Unassigned.ID)
	require.NoError(t, err)
	assert.Zero(t, unassigned.Percent)
	assert.Zero(t, unassigned.Total)

	_, err = svc.StudentProgress(ctx, s.As(s.BravoStudent), s.Student.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestEntityOverallProgress(t *testing.T) {
	s := testutil.NewSchool(t)
	svc := newProgress(s)
	ctx := context.Background()

	overview, err := svc.EntityOverallProgress(ctx, s.As(s.AlphaAdmin), s.Alpha.ID)
	require.NoError(t, err)
	assert.InDelta(t, testutil.StudentPercent/3, overview.Overall, 1e-9)
	assert.Len(t, overview.Students, 3)

	s.Record(t, s.Student2, s.Lessons[0], syllabus.StatusCompleted)

	after, err := svc.EntityOverallProgress(ctx, s.As(s.AlphaAdmin), s.Alpha.ID)
	require.NoError(t, err)
	assert.Greater(t, after.Overall, overview.Overall)

	_, err = svc.EntityOverallProgress(ctx, s.As(s.Student), s.Alpha.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestEntityOverallProgressWithoutStudents(t *testing.T) {
	s := testutil.NewSchool(t)
	svc := newProgress(s)

	overview, err := svc.EntityOverallProgress(context.Background(), s.As(s.Operator), s.Platform.ID)
	require.NoError(t, err)
	assert.Zero(t, overview.Overall)
	assert.Empty(t, overview.Students)
}

func TestRosterProgress(t *testing.T) {
	s := testutil.NewSchool(t)
	svc := newProgress(s)

	overview, err := svc.RosterProgress(context.Background(), s.As(s.Cfi), s.Cfi.ID)
	require.NoError(t, err)
	require.Len(t, overview.Students, 2)
	assert.InDelta(t, testutil.StudentPercent/2, overview.Overall, 1e-9)
}

func TestStudentReport(t *testing.T) {
	s := testutil.NewSchool(t)
	svc := newProgress(s)

	report, err := svc.StudentReport(context.Background(), s.As(s.Cfi), s.Student.ID)
	require.NoError(t, err)
	require.NotNil(t, report.Syllabus)
	assert.Contains(t, *report.Syllabus, "Private Pilot")
	require.Len(t, report.Lessons, 4)
	assert.Equal(t, "Completed", report.Lessons[0].StatusLabel)
	assert.Equal(t, "Not Started", report.Lessons[3].StatusLabel)
	assert.InDelta(t, testutil.StudentPercent, report.Tally.Percent, 1e-9)
	assert.False(t, report.GeneratedAt.IsZero())
}
