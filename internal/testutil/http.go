// AngelaMos | 2026
// http.go

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
)

// Caller is an authenticator stand-in that attaches whatever identity it
// currently holds. The zero value authenticates nobody.
type Caller struct {
	Identity access.Identity
}

func (c *Caller) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), c.Identity)))
	})
}

// Do sends body as JSON when it is not nil.
func Do(t testing.TB, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode unwraps the data field of a success envelope into dst.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.True(t, envelope.Success, "response was not a success envelope")
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}
