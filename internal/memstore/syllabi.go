// AngelaMos | 2026
// syllabi.go

package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
)

type syllabusRepo struct {
	s *Store
}

func (r *syllabusRepo) Create(ctx context.Context, syl *syllabus.Syllabus) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.syllabi[syl.ID]; ok {
		return fmt.Errorf("create syllabus: %w", core.ErrDuplicateKey)
	}

	now := r.s.now()
	syl.CreatedAt, syl.UpdatedAt = now, now

	row := *syl
	row.Lessons = nil
	r.s.data.syllabi[syl.ID] = row

	return nil
}

func (r *syllabusRepo) Update(ctx context.Context, syl *syllabus.Syllabus) error {
	defer r.s.lock(ctx)()

	row, ok := r.s.data.syllabi[syl.ID]
	if !ok {
		return fmt.Errorf("update syllabus: %w", core.ErrNotFound)
	}

	row.RatingID = syl.RatingID
	row.Title = syl.Title
	row.Version = syl.Version
	row.UpdatedAt = r.s.now()
	r.s.data.syllabi[syl.ID] = row

	syl.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *syllabusRepo) GetByID(_ context.Context, id string) (*syllabus.Syllabus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	syl, ok := r.s.data.syllabi[id]
	if !ok {
		return nil, fmt.Errorf("get syllabus: %w", core.ErrNotFound)
	}

	return &syl, nil
}

func (r *syllabusRepo) ListByEntity(_ context.Context, entityID string) ([]syllabus.Syllabus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []syllabus.Syllabus{}
	for _, syl := range r.s.data.syllabi {
		if syl.EntityID == entityID {
			out = append(out, syl)
		}
	}

	slices.SortFunc(out, func(a, b syllabus.Syllabus) int {
		if c := foldCompare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(b.Version, a.Version)
	})

	return out, nil
}

func (r *syllabusRepo) Lessons(_ context.Context, syllabusID string) ([]syllabus.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lessons := []syllabus.Lesson{}
	for _, l := range r.s.data.lessons {
		if l.SyllabusID == syllabusID {
			lessons = append(lessons, l)
		}
	}

	slices.SortFunc(lessons, func(a, b syllabus.Lesson) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return lessons, nil
}

func (r *syllabusRepo) GetLesson(_ context.Context, id int64) (*syllabus.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.data.lessons[id]
	if !ok {
		return nil, fmt.Errorf("get lesson: %w", core.ErrNotFound)
	}

	return &l, nil
}

func (r *syllabusRepo) CreateLesson(ctx context.Context, l *syllabus.Lesson) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.syllabi[l.SyllabusID]; !ok {
		return fmt.Errorf("create lesson: syllabus %s: %w", l.SyllabusID, core.ErrNotFound)
	}

	r.s.data.lessonSeq++
	l.ID = r.s.data.lessonSeq
	r.s.data.lessons[l.ID] = *l

	return nil
}

func (r *syllabusRepo) UpdateLesson(ctx context.Context, l *syllabus.Lesson) error {
	defer r.s.lock(ctx)()

	row, ok := r.s.data.lessons[l.ID]
	if !ok || row.SyllabusID != l.SyllabusID {
		return fmt.Errorf("update lesson %d: %w", l.ID, core.ErrNotFound)
	}

	r.s.data.lessons[l.ID] = *l

	return nil
}

func (r *syllabusRepo) DeleteLessons(ctx context.Context, syllabusID string, ids []int64) error {
	defer r.s.lock(ctx)()

	for _, id := range ids {
		if l, ok := r.s.data.lessons[id]; !ok || l.SyllabusID != syllabusID {
			continue
		}
		delete(r.s.data.lessons, id)

		for key := range r.s.data.progress {
			if key.lessonID == id {
				delete(r.s.data.progress, key)
			}
		}
	}

	return nil
}

type progressRepo struct {
	s *Store
}

func (r *progressRepo) Upsert(ctx context.Context, ul *syllabus.UserLesson) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.lessons[ul.LessonID]; !ok {
		return fmt.Errorf("upsert user lesson: lesson %d: %w", ul.LessonID, core.ErrNotFound)
	}

	key := progressKey{userID: ul.UserID, lessonID: ul.LessonID}
	row, ok := r.s.data.progress[key]
	if !ok {
		r.s.data.progressSeq++
		row = syllabus.UserLesson{
			ID:       r.s.data.progressSeq,
			UserID:   ul.UserID,
			LessonID: ul.LessonID,
		}
	}

	row.Status = ul.Status
	row.Notes = ul.Notes
	row.UpdatedAt = r.s.now()
	r.s.data.progress[key] = row

	ul.ID = row.ID
	ul.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *progressRepo) Get(_ context.Context, userID string, lessonID int64) (*syllabus.UserLesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.data.progress[progressKey{userID: userID, lessonID: lessonID}]
	if !ok {
		return nil, fmt.Errorf("get user lesson: %w", core.ErrNotFound)
	}

	return &row, nil
}

func (r *progressRepo) ListForUser(_ context.Context, userID string) ([]syllabus.UserLesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := []syllabus.UserLesson{}
	for key, row := range r.s.data.progress {
		if key.userID == userID {
			rows = append(rows, row)
		}
	}

	slices.SortFunc(rows, func(a, b syllabus.UserLesson) int {
		return cmp.Compare(a.LessonID, b.LessonID)
	})

	return rows, nil
}
