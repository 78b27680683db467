// AngelaMos | 2026
// handler.go

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/middleware"
)

type Handler struct {
	composer *Composer
}

func NewHandler(composer *Composer) *Handler {
	return &Handler{composer: composer}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/dashboard", h.Get)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	d, err := h.composer.Compose(r.Context(), middleware.GetIdentity(r.Context()), Query{
		Entity:  params.Get("entity"),
		Cfi:     params.Get("cfi"),
		Student: params.Get("student"),
	})
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, d)
}
