// AngelaMos | 2026
// handler_test.go

package user_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/testutil"
	"github.com/carterperez-dev/flightlog/internal/user"
)

func TestGetMe(t *testing.T) {
	s := testutil.NewSchool(t)
	require.NoError(t, s.Store.Users().ReplaceRatings(context.Background(), s.Cfi.ID, []int{4, 1, 4}))

	caller := &testutil.Caller{Identity: s.As(s.Cfi)}
	r := chi.NewRouter()
	user.NewHandler(user.NewService(s.Store.Users())).RegisterRoutes(r, caller.Middleware)

	rec := testutil.Do(t, r, http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var me user.UserResponse
	testutil.Decode(t, rec, &me)
	assert.Equal(t, s.Cfi.ID, me.ID)
	assert.Equal(t, access.PrivilegeCFI, me.Privilege)
	assert.Equal(t, []rating.Rating{{ID: 1, Label: "Private"}, {ID: 4, Label: "CFI"}}, me.Ratings)

	caller.Identity = access.Identity{}
	rec = testutil.Do(t, r, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserVisibility(t *testing.T) {
	s := testutil.NewSchool(t)

	tests := []struct {
		name   string
		caller access.Identity
		target string
		want   int
	}{
		{"self", s.As(s.Student), s.Student.ID, http.StatusOK},
		{"instructor in entity", s.As(s.Cfi), s.Student.ID, http.StatusOK},
		{"admin in entity", s.As(s.AlphaAdmin), s.Student2.ID, http.StatusOK},
		{"global", s.As(s.Operator), s.BravoStudent.ID, http.StatusOK},
		{"fellow student", s.As(s.Student2), s.Student.ID, http.StatusForbidden},
		{"other entity admin", s.As(s.BravoAdmin), s.Student.ID, http.StatusForbidden},
		{"missing user", s.As(s.Operator), "00000000-0000-0000-0000-000000000000", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &testutil.Caller{Identity: tt.caller}
			r := chi.NewRouter()
			user.NewHandler(user.NewService(s.Store.Users())).RegisterRoutes(r, caller.Middleware)

			rec := testutil.Do(t, r, http.MethodGet, "/users/"+tt.target, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
