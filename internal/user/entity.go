// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/rating"
)

type User struct {
	ID           string           `db:"id"`
	EntityID     string           `db:"entity_id"`
	Privilege    access.Privilege `db:"privilege"`
	FirstName    string           `db:"first_name"`
	LastName     string           `db:"last_name"`
	Email        string           `db:"email"`
	PasswordHash string           `db:"password_hash"`
	HasGoldSeal  bool             `db:"has_gold_seal"`
	CfiID        *string          `db:"cfi_id"`
	SyllabusID   *string          `db:"syllabus_id"`
	InactiveDate *time.Time       `db:"inactive_date"`
	TokenVersion int              `db:"token_version"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`

	Ratings []rating.Rating `db:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsActive() bool {
	return u.InactiveDate == nil
}

func (u *User) IsStudent() bool {
	return u.Privilege == access.PrivilegeStudent
}

// CheckInvariants enforces that only students carry an instructor or a
// syllabus assignment.
func (u *User) CheckInvariants() error {
	verr := core.NewValidationError()
	if !u.Privilege.Valid() {
		verr.Add("type", "is not a valid user type")
	}
	if !u.IsStudent() {
		if u.CfiID != nil {
			verr.Add("cfi_id", "can only be set for students")
		}
		if u.SyllabusID != nil {
			verr.Add("syllabus_id", "can only be set for students")
		}
	}
	return verr.OrNil()
}
