// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/rating"
)

// Filter narrows List. Zero fields do not filter.
type Filter struct {
	EntityID   string
	Privileges []access.Privilege
	ActiveOnly bool
	Search     string
	CfiID      string
}

type UserResponse struct {
	ID           string           `json:"id"`
	EntityID     string           `json:"entity_id"`
	Privilege    access.Privilege `json:"privilege"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email"`
	HasGoldSeal  bool             `json:"has_gold_seal"`
	CfiID        *string          `json:"cfi_id,omitempty"`
	SyllabusID   *string          `json:"syllabus_id,omitempty"`
	InactiveDate *time.Time       `json:"inactive_date,omitempty"`
	Ratings      []rating.Rating  `json:"ratings,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		EntityID:     u.EntityID,
		Privilege:    u.Privilege,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		HasGoldSeal:  u.HasGoldSeal,
		CfiID:        u.CfiID,
		SyllabusID:   u.SyllabusID,
		InactiveDate: u.InactiveDate,
		Ratings:      u.Ratings,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
