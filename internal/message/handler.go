// AngelaMos | 2026
// handler.go

package message

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
	r.Post("/messages", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/messages", h.List)
		r.Get("/messages/{messageID}", h.Get)
		r.Post("/messages/{messageID}/resolve", h.Resolve)
		r.Delete("/messages/{messageID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	m, err := h.service.Submit(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, m)
}

// List returns unresolved messages unless ?all=true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	unresolvedOnly := r.URL.Query().Get("all") != "true"

	messages, err := h.service.List(r.Context(), middleware.GetIdentity(r.Context()), unresolvedOnly)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, messages)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "messageID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, m)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	err := h.service.Resolve(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "messageID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "messageID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
