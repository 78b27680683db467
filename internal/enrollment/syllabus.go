// AngelaMos | 2026
// syllabus.go

package enrollment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
)

// CreateOrVersionSyllabus writes a syllabus and its lessons atomically.
//
// Without an id a fresh syllabus is created. With an id, a version above
// the stored one creates a new syllabus row carrying the submitted lessons
// and leaves the stored version untouched. Any other version edits the
// stored syllabus in place: lessons missing from the request are deleted,
// lessons with an id are updated and the rest are inserted.
func (s *Service) CreateOrVersionSyllabus(
	ctx context.Context,
	actor access.Identity,
	req SyllabusRequest,
) (result *SyllabusResult, err error) {
	ctx, span := core.StartSpan(ctx, "enrollment.create_or_version_syllabus")
	defer func() { core.EndSpan(span, err) }()

	if err := access.RequireRole(actor, access.PrivilegeAdmin); err != nil {
		return nil, err
	}

	req.Normalize()
	if req.EntityID == "" {
		req.EntityID = actor.EntityID
	}

	var existing *syllabus.Syllabus
	if req.ID != nil {
		if existing, err = s.syllabi.GetByID(ctx, *req.ID); err != nil {
			return nil, err
		}
		req.EntityID = existing.EntityID
	}

	if !access.CanManageEntity(actor, req.EntityID) {
		return nil, fmt.Errorf("write syllabus for %s: %w", req.EntityID, core.ErrForbidden)
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if existing == nil {
		if _, err := s.entities.GetByID(ctx, req.EntityID); err != nil {
			return nil, err
		}
	}

	if _, err := rating.Resolve(ctx, s.ratings, "rating_id", []int{req.RatingID}); err != nil {
		return nil, err
	}

	var current []syllabus.Lesson
	if existing != nil {
		if current, err = s.syllabi.Lessons(ctx, existing.ID); err != nil {
			return nil, err
		}
		if err := checkLessonRefs(req.Lessons, current); err != nil {
			return nil, err
		}
	}

	var out *syllabus.Syllabus
	created := existing == nil || req.Version > existing.Version

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var txErr error
		if created {
			out, txErr = s.insertSyllabus(ctx, req)
		} else {
			out, txErr = s.editSyllabus(ctx, existing, req, current)
		}
		if txErr != nil {
			return txErr
		}

		out.Lessons, txErr = s.syllabi.Lessons(ctx, out.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("syllabus.id", out.ID),
		attribute.Bool("syllabus.created", created),
	)
	if existing != nil && created {
		s.metrics.SyllabusVersioned()
	}

	return &SyllabusResult{Syllabus: out, Created: created}, nil
}

func (s *Service) insertSyllabus(ctx context.Context, req SyllabusRequest) (*syllabus.Syllabus, error) {
	syl := &syllabus.Syllabus{
		ID:       uuid.New().String(),
		EntityID: req.EntityID,
		RatingID: req.RatingID,
		Title:    req.Title,
		Version:  req.Version,
	}

	if err := s.syllabi.Create(ctx, syl); err != nil {
		return nil, err
	}

	for _, lr := range req.Lessons {
		lesson := lessonFrom(syl.ID, lr)
		if err := s.syllabi.CreateLesson(ctx, &lesson); err != nil {
			return nil, err
		}
	}

	return syl, nil
}

// editSyllabus never changes the stored version number.
func (s *Service) editSyllabus(
	ctx context.Context,
	existing *syllabus.Syllabus,
	req SyllabusRequest,
	current []syllabus.Lesson,
) (*syllabus.Syllabus, error) {
	syl := *existing
	syl.Title = req.Title
	syl.RatingID = req.RatingID

	if err := s.syllabi.Update(ctx, &syl); err != nil {
		return nil, err
	}

	kept := make(map[int64]struct{}, len(req.Lessons))
	for _, lr := range req.Lessons {
		if lr.ID != nil {
			kept[*lr.ID] = struct{}{}
		}
	}

	var removed []int64
	for _, l := range current {
		if _, ok := kept[l.ID]; !ok {
			removed = append(removed, l.ID)
		}
	}
	if err := s.syllabi.DeleteLessons(ctx, syl.ID, removed); err != nil {
		return nil, err
	}

	for _, lr := range req.Lessons {
		lesson := lessonFrom(syl.ID, lr)
		if lr.ID != nil {
			lesson.ID = *lr.ID
			if err := s.syllabi.UpdateLesson(ctx, &lesson); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.syllabi.CreateLesson(ctx, &lesson); err != nil {
			return nil, err
		}
	}

	return &syl, nil
}

// checkLessonRefs rejects lesson ids that do not belong to the syllabus
// being edited or that appear twice.
func checkLessonRefs(reqs []LessonRequest, current []syllabus.Lesson) error {
	known := make(map[int64]struct{}, len(current))
	for _, l := range current {
		known[l.ID] = struct{}{}
	}

	verr := core.NewValidationError()
	seen := make(map[int64]struct{}, len(reqs))
	for i, lr := range reqs {
		if lr.ID == nil {
			continue
		}
		field := "lessons[" + strconv.Itoa(i) + "].id"
		if _, ok := known[*lr.ID]; !ok {
			verr.Add(field, "is not a lesson of this syllabus")
			continue
		}
		if _, dup := seen[*lr.ID]; dup {
			verr.Add(field, "is listed more than once")
		}
		seen[*lr.ID] = struct{}{}
	}

	return verr.OrNil()
}

func lessonFrom(syllabusID string, lr LessonRequest) syllabus.Lesson {
	return syllabus.Lesson{
		SyllabusID: syllabusID,
		Title:      lr.Title,
		Objective:  lr.Objective,
		Content:    lr.Content,
		Completion: lr.Completion,
	}
}
