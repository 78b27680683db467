// AngelaMos | 2026
// composer_test.go

package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/dashboard"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/progress"
	"github.com/carterperez-dev/flightlog/internal/quote"
	"github.com/carterperez-dev/flightlog/internal/testutil"
)

type stubQuotes struct {
	quote *quote.Quote
	err   error
}

func (s stubQuotes) Random(context.Context) (*quote.Quote, error) {
	return s.quote, s.err
}

func newComposer(s *testutil.School, quotes quote.Source) *dashboard.Composer {
	dir := directory.NewService(
		directory.Config{CountAdminsAsInstructors: true},
		s.Store.Entities(),
		s.Store.Users(),
		s.Store.Syllabi(),
		s.Store.Progress(),
	)
	return dashboard.NewComposer(
		dir,
		progress.NewService(dir),
		message.NewService(s.Store.Messages()),
		s.Store.Subscriptions(),
		quotes,
	)
}

func TestGlobalDashboard(t *testing.T) {
	s := testutil.NewSchool(t)
	ctx := context.Background()

	msgs := message.NewService(s.Store.Messages())
	_, err := msgs.Submit(ctx, message.CreateMessageRequest{
		Type:        "sales",
		ContactName: "Prospect",
		Email:       "prospect@example.com",
		Message:     "We run twelve aircraft, call me.",
	})
	require.NoError(t, err)

	d, err := newComposer(s, nil).Compose(ctx, s.As(s.Operator), dashboard.Query{Entity: "alpha"})
	require.NoError(t, err)

	assert.Equal(t, access.PrivilegeGlobal, d.Role)
	require.Len(t, d.Entities, 1)
	assert.Equal(t, s.Alpha.ID, d.Entities[0].ID)
	assert.Len(t, d.Messages, 1)
	assert.Nil(t, d.Entity)
	assert.Nil(t, d.Profile)
}

func TestAdminDashboard(t *testing.T) {
	s := testutil.NewSchool(t)

	d, err := newComposer(s, nil).Compose(context.Background(), s.As(s.AlphaAdmin), dashboard.Query{})
	require.NoError(t, err)

	require.NotNil(t, d.Entity)
	assert.Equal(t, s.Alpha.ID, d.Entity.ID)
	assert.Equal(t, 3, d.Entity.StudentCount)
	assert.Len(t, d.Subscriptions, 4)
	assert.Len(t, d.Cfis, 2)
	assert.Len(t, d.Syllabi, 1)
	assert.Len(t, d.Students, 3)
	require.NotNil(t, d.OverallProgress)
	assert.InDelta(t, testutil.StudentPercent/3, *d.OverallProgress, 1e-9)
	assert.True(t, d.CanEnrollStudent)
	assert.True(t, d.CanEditUser)
	assert.Empty(t, d.Messages)
}

func TestRosterSearchKeepsOverallProgress(t *testing.T) {
	s := testutil.NewSchool(t)

	d, err := newComposer(s, nil).Compose(context.Background(), s.As(s.AlphaAdmin), dashboard.Query{
		Student: "funk",
	})
	require.NoError(t, err)

	require.Len(t, d.Students, 1)
	assert.Equal(t, s.Unassigned.ID, d.Students[0].Student.ID)
	require.NotNil(t, d.OverallProgress)
	assert.InDelta(t, testutil.StudentPercent/3, *d.OverallProgress, 1e-9)
}

func TestCfiDashboardShowsOwnStudents(t *testing.T) {
	s := testutil.NewSchool(t)

	d, err := newComposer(s, nil).Compose(context.Background(), s.As(s.Cfi), dashboard.Query{})
	require.NoError(t, err)

	require.Len(t, d.Students, 2)
	for _, row := range d.Students {
		require.NotNil(t, row.Student.CfiID)
		assert.Equal(t, s.Cfi.ID, *row.Student.CfiID)
	}
	require.NotNil(t, d.OverallProgress)
	assert.InDelta(t, testutil.StudentPercent/2, *d.OverallProgress, 1e-9)
	assert.False(t, d.CanEnrollStudent)
	assert.Empty(t, d.Subscriptions)
}

func TestStudentDashboard(t *testing.T) {
	s := testutil.NewSchool(t)
	want := &quote.Quote{Text: "Aviate, navigate, communicate.", Author: "Unknown"}

	d, err := newComposer(s, stubQuotes{quote: want}).Compose(
		context.Background(), s.As(s.Student), dashboard.Query{},
	)
	require.NoError(t, err)

	require.NotNil(t, d.Profile)
	assert.Equal(t, s.Student.ID, d.Profile.ID)
	require.NotNil(t, d.Syllabus)
	assert.Equal(t, "Private Pilot - Version 1", *d.Syllabus)
	assert.Len(t, d.Lessons, 4)
	require.NotNil(t, d.Progress)
	assert.InDelta(t, testutil.StudentPercent, d.Progress.Percent, 1e-9)
	assert.Equal(t, want, d.Quote)
	assert.Nil(t, d.OverallProgress)
}

func TestStudentDashboardSurvivesQuoteFailure(t *testing.T) {
	s := testutil.NewSchool(t)

	d, err := newComposer(s, stubQuotes{err: errors.New("upstream down")}).Compose(
		context.Background(), s.As(s.Unassigned), dashboard.Query{},
	)
	require.NoError(t, err)

	assert.Nil(t, d.Quote)
	assert.Nil(t, d.Syllabus)
	assert.Empty(t, d.Lessons)
	require.NotNil(t, d.Progress)
	assert.Zero(t, d.Progress.Percent)
}

func TestComposeRejectsAnonymous(t *testing.T) {
	s := testutil.NewSchool(t)

	_, err := newComposer(s, nil).Compose(context.Background(), access.Identity{}, dashboard.Query{})
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestDashboardHandler(t *testing.T) {
	s := testutil.NewSchool(t)
	caller := s.As(s.AlphaAdmin)

	authenticator := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), caller)))
		})
	}

	r := chi.NewRouter()
	dashboard.NewHandler(newComposer(s, nil)).RegisterRoutes(r, authenticator)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?student=earhart", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Role     string `json:"role"`
			Students []struct {
				Percent float64 `json:"percent"`
			} `json:"students"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "admin", body.Data.Role)
	require.Len(t, body.Data.Students, 1)
	assert.InDelta(t, testutil.StudentPercent, body.Data.Students[0].Percent, 1e-9)
}
