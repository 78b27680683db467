// AngelaMos | 2026
// handler.go

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/subscriptions", h.List)
}

// List returns every offered plan. Features are included unless
// ?features=false.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	withFeatures := r.URL.Query().Get("features") != "false"

	subs, err := h.repo.ListOffered(r.Context(), withFeatures)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, subs)
}
