// AngelaMos | 2026
// counter.go

package admin

import (
	"context"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type repoCounter struct {
	entities entity.Repository
	users    user.Repository
	messages message.Repository
}

// NewCounter reads the platform totals from the repositories.
func NewCounter(entities entity.Repository, users user.Repository, messages message.Repository) Counter {
	return &repoCounter{entities: entities, users: users, messages: messages}
}

func (c *repoCounter) ActiveEntities(ctx context.Context) (int, error) {
	return c.entities.CountActive(ctx)
}

func (c *repoCounter) ActiveUsersByPrivilege(ctx context.Context) (map[access.Privilege]int, error) {
	return c.users.CountActiveByPrivilege(ctx)
}

func (c *repoCounter) OpenMessages(ctx context.Context) (int, error) {
	open, err := c.messages.List(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(open), nil
}
