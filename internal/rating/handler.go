// AngelaMos | 2026
// handler.go

package rating

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
	r.Get("/ratings", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.repo.List(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ratings)
}
