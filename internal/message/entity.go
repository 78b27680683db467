// AngelaMos | 2026
// entity.go

package message

import "time"

const (
	TypeSales   = "sales"
	TypeGeneral = "general"
)

// Message is a contact form submission, handled by global users.
type Message struct {
	ID          string    `db:"id"           json:"id"`
	Type        string    `db:"type"         json:"type"`
	OrgName     *string   `db:"org_name"     json:"org_name,omitempty"`
	ContactName string    `db:"contact_name" json:"contact_name"`
	Email       string    `db:"email"        json:"email"`
	Body        string    `db:"body"         json:"message"`
	Resolved    bool      `db:"resolved"     json:"resolved"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
