// AngelaMos | 2026
// handler.go

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/entities/{entityID}/progress", h.EntityProgress)
		r.Get("/cfis/{userID}/progress", h.RosterProgress)
		r.Get("/students/{userID}/progress", h.StudentProgress)
		r.Get("/students/{userID}/report", h.StudentReport)
	})
}

func (h *Handler) EntityProgress(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.EntityOverallProgress(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "entityID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, overview)
}

func (h *Handler) RosterProgress(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.RosterProgress(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, overview)
}

func (h *Handler) StudentProgress(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.StudentProgress(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, row)
}

func (h *Handler) StudentReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.StudentReport(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, report)
}
