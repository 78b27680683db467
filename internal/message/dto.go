// AngelaMos | 2026
// dto.go

package message

import (
	"strings"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type CreateMessageRequest struct {
	Type        string  `json:"type"         validate:"required,oneof=sales general"`
	OrgName     *string `json:"org_name"     validate:"omitempty,max=255"`
	ContactName string  `json:"contact_name" validate:"required,max=255"`
	Email       string  `json:"email"        validate:"required,email,max=255"`
	Message     string  `json:"message"      validate:"required,min=5,max=5000"`
}

func (r *CreateMessageRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.OrgName = core.TrimToNull(r.OrgName)
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.Email = core.NormalizeEmail(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}
