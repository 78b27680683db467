// AngelaMos | 2026
// repository.go

package syllabus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Syllabus) error
	Update(ctx context.Context, s *Syllabus) error
	GetByID(ctx context.Context, id string) (*Syllabus, error)
	ListByEntity(ctx context.Context, entityID string) ([]Syllabus, error)
	Lessons(ctx context.Context, syllabusID string) ([]Lesson, error)
	GetLesson(ctx context.Context, id int64) (*Lesson, error)
	CreateLesson(ctx context.Context, l *Lesson) error
	UpdateLesson(ctx context.Context, l *Lesson) error
	DeleteLessons(ctx context.Context, syllabusID string, ids []int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Syllabus) error {
	query := `
		INSERT INTO syllabi (id, entity_id, rating_id, title, version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.EntityID, s.RatingID, s.Title, s.Version,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create syllabus: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, s *Syllabus) error {
	query := `
		UPDATE syllabi
		SET rating_id = $2, title = $3, version = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := core.Conn(ctx, r.db).GetContext(ctx, &s.UpdatedAt, query,
		s.ID, s.RatingID, s.Title, s.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update syllabus: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update syllabus: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Syllabus, error) {
	query := `
		SELECT id, entity_id, rating_id, title, version, created_at, updated_at
		FROM syllabi
		WHERE id = $1`

	var s Syllabus
	err := core.Conn(ctx, r.db).GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get syllabus: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get syllabus: %w", err)
	}

	return &s, nil
}

func (r *repository) ListByEntity(ctx context.Context, entityID string) ([]Syllabus, error) {
	query := `
		SELECT id, entity_id, rating_id, title, version, created_at, updated_at
		FROM syllabi
		WHERE entity_id = $1
		ORDER BY LOWER(title) COLLATE "C", title COLLATE "C", version DESC`

	syllabi := []Syllabus{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &syllabi, query, entityID); err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}

	return syllabi, nil
}

func (r *repository) Lessons(ctx context.Context, syllabusID string) ([]Lesson, error) {
	query := `
		SELECT id, syllabus_id, title, objective, content, completion
		FROM lessons
		WHERE syllabus_id = $1
		ORDER BY id ASC`

	lessons := []Lesson{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &lessons, query, syllabusID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	return lessons, nil
}

func (r *repository) GetLesson(ctx context.Context, id int64) (*Lesson, error) {
	query := `
		SELECT id, syllabus_id, title, objective, content, completion
		FROM lessons
		WHERE id = $1`

	var l Lesson
	err := core.Conn(ctx, r.db).GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lesson: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	return &l, nil
}

func (r *repository) CreateLesson(ctx context.Context, l *Lesson) error {
	query := `
		INSERT INTO lessons (syllabus_id, title, objective, content, completion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := core.Conn(ctx, r.db).GetContext(ctx, &l.ID, query,
		l.SyllabusID, l.Title, l.Objective, l.Content, l.Completion,
	)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

func (r *repository) UpdateLesson(ctx context.Context, l *Lesson) error {
	query := `
		UPDATE lessons
		SET title = $3, objective = $4, content = $5, completion = $6,
		    updated_at = NOW()
		WHERE id = $1 AND syllabus_id = $2`

	result, err := core.Conn(ctx, r.db).ExecContext(ctx, query,
		l.ID, l.SyllabusID, l.Title, l.Objective, l.Content, l.Completion,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update lesson %d: %w", l.ID, core.ErrNotFound)
	}

	return nil
}

// DeleteLessons removes lessons of syllabusID. Progress rows for them are
// removed by the foreign key cascade.
func (r *repository) DeleteLessons(ctx context.Context, syllabusID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM lessons WHERE syllabus_id = ? AND id IN (?)`,
		syllabusID, ids,
	)
	if err != nil {
		return fmt.Errorf("delete lessons: %w", err)
	}

	db := core.Conn(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete lessons: %w", err)
	}

	return nil
}
