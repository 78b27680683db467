// AngelaMos | 2026
// handler.go

package entity

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/entities/{entityID}", h.Get)
		r.Put("/entities/{entityID}/subscription", h.UpdateSubscription)
		r.Post("/entities/{entityID}/deactivate", h.Deactivate)
		r.Post("/entities/{entityID}/reactivate", h.Reactivate)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	e, err := h.service.Get(r.Context(), caller, chi.URLParam(r, "entityID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, e)
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	var req UpdateSubscriptionRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := core.ValidateStruct(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	e, err := h.service.UpdateSubscription(
		r.Context(),
		caller,
		chi.URLParam(r, "entityID"),
		req.SubscriptionID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, e)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	e, err := h.service.Deactivate(r.Context(), caller, chi.URLParam(r, "entityID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, e)
}

func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	e, err := h.service.Reactivate(r.Context(), caller, chi.URLParam(r, "entityID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, e)
}
