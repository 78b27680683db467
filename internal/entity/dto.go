// AngelaMos | 2026
// dto.go

package entity

import (
	"github.com/carterperez-dev/flightlog/internal/access"
)

// SummaryFilter narrows ListSummaries. An empty EntityID lists every
// entity; Name is a case-insensitive substring.
type SummaryFilter struct {
	EntityID    string
	Name        string
	Instructors []access.Privilege
}

type UpdateSubscriptionRequest struct {
	SubscriptionID int `json:"subscription_id" validate:"required,gt=0"`
}
