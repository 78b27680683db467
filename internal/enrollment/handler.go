// AngelaMos | 2026
// handler.go

package enrollment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/middleware"
	"github.com/carterperez-dev/flightlog/internal/user"
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

		r.Post("/entities", h.CreateEntity)

		r.Post("/users", h.CreateUser)
		r.Put("/users/{userID}", h.UpdateUser)
		r.Post("/users/{userID}/deactivate", h.DeactivateUser)
		r.Post("/users/{userID}/reactivate", h.ReactivateUser)

		r.Post("/syllabi", h.CreateSyllabus)
		r.Put("/syllabi/{syllabusID}", h.UpdateSyllabus)

		r.Put("/students/{userID}/lessons/{lessonID}", h.RecordProgress)
	})
}

func (h *Handler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	out, err := h.service.CreateEntity(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, out)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	out, err := h.service.CreateUser(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, out)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	u, err := h.service.UpdateUser(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.DeactivateUser(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func (h *Handler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.ReactivateUser(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func (h *Handler) CreateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req SyllabusRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	h.writeSyllabus(w, r, req)
}

func (h *Handler) UpdateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req SyllabusRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	id := chi.URLParam(r, "syllabusID")
	req.ID = &id

	h.writeSyllabus(w, r, req)
}

func (h *Handler) writeSyllabus(w http.ResponseWriter, r *http.Request, req SyllabusRequest) {
	out, err := h.service.CreateOrVersionSyllabus(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if out.Created {
		core.Created(w, out)
		return
	}
	core.OK(w, out)
}

func (h *Handler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	lessonID, err := directory.LessonIDParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req ProgressRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	record, err := h.service.RecordLessonProgress(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
		lessonID,
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}
