// AngelaMos | 2026
// entity.go

package entity

import (
	"time"
)

// Entity is a tenant organization. Entities are never hard deleted.
type Entity struct {
	ID             string     `db:"id"              json:"id"`
	Name           string     `db:"name"            json:"name"`
	Phone          *string    `db:"phone"           json:"phone,omitempty"`
	SubscriptionID *int       `db:"subscription_id" json:"subscription_id,omitempty"`
	InactiveDate   *time.Time `db:"inactive_date"   json:"inactive_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"      json:"updated_at"`
}

func (e *Entity) IsActive() bool {
	return e.InactiveDate == nil
}

// Summary is an entity row with its derived roster counts.
type Summary struct {
	Entity
	SubscriptionLabel *string `db:"subscription_label" json:"subscription_label,omitempty"`
	CfiCount          int     `db:"cfi_count"          json:"cfi_count"`
	StudentCount      int     `db:"student_count"      json:"student_count"`
}
