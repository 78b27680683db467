// AngelaMos | 2026
// progress_repository.go

package syllabus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type ProgressRepository interface {
	Upsert(ctx context.Context, ul *UserLesson) error
	Get(ctx context.Context, userID string, lessonID int64) (*UserLesson, error)
	ListForUser(ctx context.Context, userID string) ([]UserLesson, error)
}

type progressRepository struct {
	db core.DBTX
}

func NewProgressRepository(db core.DBTX) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Upsert(ctx context.Context, ul *UserLesson) error {
	query := `
		INSERT INTO user_lessons (user_id, lesson_id, status, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING id, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		ul.UserID, ul.LessonID, ul.Status, ul.Notes,
	).Scan(&ul.ID, &ul.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("upsert user lesson: lesson %d: %w", ul.LessonID, core.ErrNotFound)
		}
		return fmt.Errorf("upsert user lesson: %w", err)
	}

	return nil
}

func (r *progressRepository) Get(
	ctx context.Context,
	userID string,
	lessonID int64,
) (*UserLesson, error) {
	query := `
		SELECT id, user_id, lesson_id, status, notes, updated_at
		FROM user_lessons
		WHERE user_id = $1 AND lesson_id = $2`

	var ul UserLesson
	err := core.Conn(ctx, r.db).GetContext(ctx, &ul, query, userID, lessonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user lesson: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user lesson: %w", err)
	}

	return &ul, nil
}

func (r *progressRepository) ListForUser(ctx context.Context, userID string) ([]UserLesson, error) {
	query := `
		SELECT id, user_id, lesson_id, status, notes, updated_at
		FROM user_lessons
		WHERE user_id = $1
		ORDER BY lesson_id ASC`

	rows := []UserLesson{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list user lessons: %w", err)
	}

	return rows, nil
}
