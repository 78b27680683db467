// AngelaMos | 2026
// dto.go

package enrollment

import (
	"strings"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// CreateUserRequest adds a user to an entity. EntityID defaults to the
// caller's entity. Password is optional; a temporary one is generated
// when it is omitted.
type CreateUserRequest struct {
	EntityID    string  `json:"entity_id"`
	Type        string  `json:"type"        validate:"required,oneof=admin cfi student"`
	FirstName   string  `json:"first_name"  validate:"required,max=100"`
	LastName    string  `json:"last_name"   validate:"required,max=100"`
	Email       string  `json:"email"       validate:"required,email,max=255"`
	Password    *string `json:"password"    validate:"omitempty,min=8,max=128"`
	HasGoldSeal bool    `json:"has_gold_seal"`
	CfiID       *string `json:"cfi_id"      validate:"omitempty,uuid"`
	SyllabusID  *string `json:"syllabus_id" validate:"omitempty,uuid"`
	RatingIDs   []int   `json:"rating_ids"  validate:"omitempty,dive,gt=0"`
}

func (r *CreateUserRequest) Normalize() {
	r.EntityID = strings.TrimSpace(r.EntityID)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = core.NormalizeEmail(r.Email)
	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
	r.CfiID = core.TrimToNull(r.CfiID)
	r.SyllabusID = core.TrimToNull(r.SyllabusID)
}

// UpdateUserRequest replaces a user's editable fields. RatingIDs replaces
// the rating set wholesale; an empty list clears it.
type UpdateUserRequest struct {
	FirstName   string  `json:"first_name"  validate:"required,max=100"`
	LastName    string  `json:"last_name"   validate:"required,max=100"`
	Email       string  `json:"email"       validate:"required,email,max=255"`
	HasGoldSeal bool    `json:"has_gold_seal"`
	CfiID       *string `json:"cfi_id"      validate:"omitempty,uuid"`
	SyllabusID  *string `json:"syllabus_id" validate:"omitempty,uuid"`
	RatingIDs   []int   `json:"rating_ids"  validate:"omitempty,dive,gt=0"`
}

func (r *UpdateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = core.NormalizeEmail(r.Email)
	r.CfiID = core.TrimToNull(r.CfiID)
	r.SyllabusID = core.TrimToNull(r.SyllabusID)
}

type LessonRequest struct {
	ID         *int64 `json:"id"         validate:"omitempty,gt=0"`
	Title      string `json:"title"      validate:"required,max=200"`
	Objective  string `json:"objective"  validate:"required"`
	Content    string `json:"content"    validate:"required"`
	Completion string `json:"completion" validate:"required"`
}

func (r *LessonRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Objective = strings.TrimSpace(r.Objective)
	r.Content = strings.TrimSpace(r.Content)
	r.Completion = strings.TrimSpace(r.Completion)
}

// SyllabusRequest creates a syllabus when ID is nil. With an ID, a version
// above the stored one creates a new syllabus and anything else edits the
// stored one in place.
type SyllabusRequest struct {
	ID       *string         `json:"-"`
	EntityID string          `json:"entity_id"`
	RatingID int             `json:"rating_id" validate:"required,gt=0"`
	Title    string          `json:"title"     validate:"required,max=200"`
	Version  float64         `json:"version"   validate:"gt=0"`
	Lessons  []LessonRequest `json:"lessons"   validate:"omitempty,dive"`
}

func (r *SyllabusRequest) Normalize() {
	r.EntityID = strings.TrimSpace(r.EntityID)
	r.Title = strings.TrimSpace(r.Title)
	for i := range r.Lessons {
		r.Lessons[i].Normalize()
	}
}

type ProgressRequest struct {
	Status syllabus.Status `json:"status" validate:"required,oneof=not-started in-progress completed"`
	Notes  string          `json:"notes"  validate:"max=5000"`
}

func (r *ProgressRequest) Normalize() {
	r.Status = syllabus.Status(strings.ToLower(strings.TrimSpace(string(r.Status))))
	r.Notes = strings.TrimSpace(r.Notes)
}

// Provisioned is the result of creating an entity with its first admin.
type Provisioned struct {
	Entity *entity.Entity    `json:"entity"`
	Admin  user.UserResponse `json:"admin"`
}

// CreatedUser carries the temporary password exactly once, when one was
// generated.
type CreatedUser struct {
	User              user.UserResponse `json:"user"`
	TemporaryPassword string            `json:"temporary_password,omitempty"`
}

// SyllabusResult reports whether the write produced a new syllabus row.
type SyllabusResult struct {
	Syllabus *syllabus.Syllabus `json:"syllabus"`
	Created  bool               `json:"created"`
}
