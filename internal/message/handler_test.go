// AngelaMos | 2026
// handler_test.go

package message_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/testutil"
)

func TestMessageLifecycle(t *testing.T) {
	s := testutil.NewSchool(t)
	caller := &testutil.Caller{}

	r := chi.NewRouter()
	message.NewHandler(message.NewService(s.Store.Messages())).RegisterRoutes(r, caller.Middleware)

	rec := testutil.Do(t, r, http.MethodPost, "/messages", map[string]any{
		"type":         "sales",
		"contact_name": "  Jimmy Doolittle ",
		"email":        "Jimmy@Example.com",
		"message":      "We run twelve aircraft, what does it cost?",
		"org_name":     "   ",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created message.Message
	testutil.Decode(t, rec, &created)
	assert.Equal(t, "Jimmy Doolittle", created.ContactName)
	assert.Equal(t, "jimmy@example.com", created.Email)
	assert.Nil(t, created.OrgName)
	assert.False(t, created.Resolved)

	rec = testutil.Do(t, r, http.MethodGet, "/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	caller.Identity = s.As(s.AlphaAdmin)
	rec = testutil.Do(t, r, http.MethodGet, "/messages", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	caller.Identity = s.As(s.Operator)
	rec = testutil.Do(t, r, http.MethodGet, "/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var open []message.Message
	testutil.Decode(t, rec, &open)
	require.Len(t, open, 1)

	rec = testutil.Do(t, r, http.MethodPost, "/messages/"+created.ID+"/resolve", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = testutil.Do(t, r, http.MethodGet, "/messages", nil)
	testutil.Decode(t, rec, &open)
	assert.Empty(t, open)

	rec = testutil.Do(t, r, http.MethodGet, "/messages?all=true", nil)
	var all []message.Message
	testutil.Decode(t, rec, &all)
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)

	rec = testutil.Do(t, r, http.MethodDelete, "/messages/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = testutil.Do(t, r, http.MethodGet, "/messages/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitValidation(t *testing.T) {
	s := testutil.NewSchool(t)
	r := chi.NewRouter()
	message.NewHandler(message.NewService(s.Store.Messages())).RegisterRoutes(r, (&testutil.Caller{}).Middleware)

	rec := testutil.Do(t, r, http.MethodPost, "/messages", map[string]any{
		"type":         "complaint",
		"contact_name": "",
		"email":        "not-an-email",
		"message":      "hi",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"type"`)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
}
