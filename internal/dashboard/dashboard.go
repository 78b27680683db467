// AngelaMos | 2026
// dashboard.go

package dashboard

import (
	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/progress"
	"github.com/carterperez-dev/flightlog/internal/quote"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// Query carries the search boxes of the dashboard. Entity filters entity
// names for global users; Cfi and Student filter the rosters by first or
// last name.
type Query struct {
	Entity  string
	Cfi     string
	Student string
}

// Dashboard is the role specific payload. Sections that do not apply to
// the caller's role are omitted.
type Dashboard struct {
	Role access.Privilege `json:"role"`

	Entities []entity.Summary `json:"entities,omitempty"`
	Messages []message.Message `json:"messages,omitempty"`

	Entity          *entity.Summary             `json:"entity,omitempty"`
	Subscriptions   []subscription.Subscription `json:"subscriptions,omitempty"`
	Cfis            []user.UserResponse         `json:"cfis,omitempty"`
	Students        []progress.StudentProgress  `json:"students,omitempty"`
	Syllabi         []syllabus.Syllabus         `json:"syllabi,omitempty"`
	OverallProgress *float64                    `json:"overall_progress,omitempty"`

	Profile  *user.UserResponse        `json:"profile,omitempty"`
	Syllabus *string                   `json:"syllabus,omitempty"`
	Lessons  []directory.StudentLesson `json:"lessons,omitempty"`
	Progress *progress.Tally           `json:"progress,omitempty"`
	Quote    *quote.Quote              `json:"quote,omitempty"`

	CanEnrollStudent bool `json:"can_enroll_student"`
	CanEditUser      bool `json:"can_edit_user"`
}
