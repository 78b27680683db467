// AngelaMos | 2026
// handler_test.go

package entity_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/testutil"
)

func newRouter(s *testutil.School, caller *testutil.Caller) chi.Router {
	r := chi.NewRouter()
	svc := entity.NewService(s.Store.Entities(), s.Store.Subscriptions())
	entity.NewHandler(svc).RegisterRoutes(r, caller.Middleware)
	return r
}

func TestGetEntityScope(t *testing.T) {
	s := testutil.NewSchool(t)
	caller := &testutil.Caller{Identity: s.As(s.Student)}
	r := newRouter(s, caller)

	rec := testutil.Do(t, r, http.MethodGet, "/entities/"+s.Alpha.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.Entity
	testutil.Decode(t, rec, &got)
	assert.Equal(t, "Alpha Aviation", got.Name)

	rec = testutil.Do(t, r, http.MethodGet, "/entities/"+s.Bravo.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	caller.Identity = s.As(s.Operator)
	rec = testutil.Do(t, r, http.MethodGet, "/entities/"+s.Bravo.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateSubscription(t *testing.T) {
	s := testutil.NewSchool(t)
	caller := &testutil.Caller{Identity: s.As(s.AlphaAdmin)}
	r := newRouter(s, caller)
	path := "/entities/" + s.Alpha.ID + "/subscription"

	rec := testutil.Do(t, r, http.MethodPut, path, map[string]int{"subscription_id": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.Entity
	testutil.Decode(t, rec, &got)
	require.NotNil(t, got.SubscriptionID)
	assert.Equal(t, 4, *got.SubscriptionID)

	tests := []struct {
		name   string
		caller *testutil.Caller
		path   string
		body   any
		want   int
	}{
		{"global plan is not offered", caller, path, map[string]int{"subscription_id": 5}, http.StatusUnprocessableEntity},
		{"unknown plan", caller, path, map[string]int{"subscription_id": 42}, http.StatusUnprocessableEntity},
		{"missing plan", caller, path, map[string]int{}, http.StatusUnprocessableEntity},
		{"unknown field", caller, path, map[string]any{"plan": 2}, http.StatusBadRequest},
		{"other entity", caller, "/entities/" + s.Bravo.ID + "/subscription", map[string]int{"subscription_id": 2}, http.StatusForbidden},
		{"cfi", &testutil.Caller{Identity: s.As(s.Cfi)}, path, map[string]int{"subscription_id": 2}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Do(t, newRouter(s, tt.caller), http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDeactivateReactivate(t *testing.T) {
	s := testutil.NewSchool(t)
	caller := &testutil.Caller{Identity: s.As(s.AlphaAdmin)}
	r := newRouter(s, caller)

	rec := testutil.Do(t, r, http.MethodPost, "/entities/"+s.Bravo.ID+"/deactivate", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	caller.Identity = s.As(s.Operator)

	rec = testutil.Do(t, r, http.MethodPost, "/entities/"+s.Bravo.ID+"/deactivate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first entity.Entity
	testutil.Decode(t, rec, &first)
	require.NotNil(t, first.InactiveDate)

	rec = testutil.Do(t, r, http.MethodPost, "/entities/"+s.Bravo.ID+"/deactivate", nil)
	var second entity.Entity
	testutil.Decode(t, rec, &second)
	require.NotNil(t, second.InactiveDate)
	assert.True(t, first.InactiveDate.Equal(*second.InactiveDate))

	rec = testutil.Do(t, r, http.MethodPost, "/entities/"+s.Bravo.ID+"/reactivate", nil)
	var back entity.Entity
	testutil.Decode(t, rec, &back)
	assert.Nil(t, back.InactiveDate)
}
