// AngelaMos | 2026
// entity.go

package subscription

// KeyGlobal is the platform plan. It is assigned to the operator's own
// entity and never offered.
const KeyGlobal = "global"

type Subscription struct {
	ID           int       `db:"id"            json:"id"`
	Key          string    `db:"key"           json:"key"`
	Label        string    `db:"label"         json:"label"`
	Summary      *string   `db:"summary"       json:"summary,omitempty"`
	Price        *float64  `db:"price"         json:"price,omitempty"`
	RequireSales bool      `db:"require_sales" json:"require_sales"`
	Features     []Feature `db:"-"             json:"features,omitempty"`
}

func (s *Subscription) Offered() bool {
	return s.Key != KeyGlobal
}

type Feature struct {
	ID             int    `db:"id"              json:"id"`
	SubscriptionID int    `db:"subscription_id" json:"-"`
	Label          string `db:"feature"         json:"label"`
}
