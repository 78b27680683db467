// AngelaMos | 2026
// handler.go

package directory

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/core"
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

		r.Get("/entities", h.ListEntities)
		r.Get("/entities/{entityID}/cfis", h.ListCfis)
		r.Get("/entities/{entityID}/students", h.ListStudents)
		r.Get("/entities/{entityID}/syllabi", h.ListSyllabi)

		r.Get("/users/me/lessons", h.GetMyLessons)
		r.Get("/students/{userID}/lessons", h.GetStudentLessons)
		r.Get("/students/{userID}/lessons/{lessonID}", h.GetStudentLesson)

		r.Get("/syllabi/{syllabusID}", h.GetSyllabus)
	})
}

func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListEntities(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		EntityQuery{Name: r.URL.Query().Get("name")},
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, rows)
}

func (h *Handler) ListCfis(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListCfis(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "entityID"),
		UserQuery{Search: r.URL.Query().Get("search")},
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponseList(users))
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListStudents(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "entityID"),
		StudentQuery{
			Search: r.URL.Query().Get("search"),
			CfiID:  r.URL.Query().Get("cfi_id"),
		},
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.ToUserResponseList(users))
}

func (h *Handler) ListSyllabi(w http.ResponseWriter, r *http.Request) {
	syllabi, err := h.service.ListSyllabi(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "entityID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, syllabi)
}

func (h *Handler) GetMyLessons(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	lessons, err := h.service.GetStudentLessons(r.Context(), caller, caller.UserID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, lessons)
}

func (h *Handler) GetStudentLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.GetStudentLessons(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, lessons)
}

func (h *Handler) GetStudentLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := LessonIDParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	lesson, err := h.service.GetStudentLesson(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
		lessonID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, lesson)
}

func (h *Handler) GetSyllabus(w http.ResponseWriter, r *http.Request) {
	syl, err := h.service.GetSyllabus(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "syllabusID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, syl)
}

// LessonIDParam parses the {lessonID} route parameter.
func LessonIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "lessonID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewAppError(
			core.ErrInvalidInput,
			"invalid lesson id",
			http.StatusBadRequest,
			"BAD_REQUEST",
		)
	}
	return id, nil
}
