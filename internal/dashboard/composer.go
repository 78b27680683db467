// AngelaMos | 2026
// composer.go

package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/progress"
	"github.com/carterperez-dev/flightlog/internal/quote"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type Composer struct {
	directory     *directory.Service
	progress      *progress.Service
	messages      *message.Service
	subscriptions subscription.Repository
	quotes        quote.Source
}

// NewComposer builds a Composer. quotes may be nil to disable the student
// quote.
func NewComposer(
	dir *directory.Service,
	prog *progress.Service,
	messages *message.Service,
	subscriptions subscription.Repository,
	quotes quote.Source,
) *Composer {
	return &Composer{
		directory:     dir,
		progress:      prog,
		messages:      messages,
		subscriptions: subscriptions,
		quotes:        quotes,
	}
}

// Compose assembles the dashboard for caller's role. The independent
// reads of each role run concurrently; any failure fails the dashboard
// except the quote, which is dropped.
func (c *Composer) Compose(ctx context.Context, caller access.Identity, q Query) (*Dashboard, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("dashboard: %w", core.ErrUnauthorized)
	}

	d := &Dashboard{
		Role:             caller.Privilege,
		CanEnrollStudent: access.CanEnrollStudent(caller),
		CanEditUser:      access.CanEditUser(caller, caller.EntityID),
	}

	var err error
	switch caller.Privilege {
	case access.PrivilegeGlobal:
		err = c.global(ctx, caller, q, d)
	case access.PrivilegeAdmin:
		err = c.admin(ctx, caller, q, d)
	case access.PrivilegeCFI:
		err = c.cfi(ctx, caller, q, d)
	case access.PrivilegeStudent:
		err = c.student(ctx, caller, d)
	default:
		err = fmt.Errorf("dashboard for %s: %w", caller.Privilege, core.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (c *Composer) global(ctx context.Context, caller access.Identity, q Query, d *Dashboard) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entities, err := c.directory.ListEntities(ctx, caller, directory.EntityQuery{Name: q.Entity})
		d.Entities = entities
		return err
	})

	g.Go(func() error {
		messages, err := c.messages.List(ctx, caller, true)
		d.Messages = messages
		return err
	})

	return g.Wait()
}

func (c *Composer) admin(ctx context.Context, caller access.Identity, q Query, d *Dashboard) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := c.directory.GetEntitySummary(ctx, caller, caller.EntityID)
		d.Entity = summary
		return err
	})

	g.Go(func() error {
		subs, err := c.subscriptions.ListOffered(ctx, false)
		d.Subscriptions = subs
		return err
	})

	g.Go(func() error {
		cfis, err := c.directory.ListCfis(ctx, caller, caller.EntityID, directory.UserQuery{Search: q.Cfi})
		d.Cfis = user.ToUserResponseList(cfis)
		return err
	})

	g.Go(func() error {
		syllabi, err := c.directory.ListSyllabi(ctx, caller, caller.EntityID)
		d.Syllabi = syllabi
		return err
	})

	g.Go(func() error {
		students, overall, err := c.roster(ctx, caller, directory.StudentQuery{Search: q.Student})
		d.Students = students
		d.OverallProgress = overall
		return err
	})

	return g.Wait()
}

func (c *Composer) cfi(ctx context.Context, caller access.Identity, q Query, d *Dashboard) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := c.directory.GetEntitySummary(ctx, caller, caller.EntityID)
		d.Entity = summary
		return err
	})

	g.Go(func() error {
		students, overall, err := c.roster(ctx, caller, directory.StudentQuery{
			Search: q.Student,
			CfiID:  caller.UserID,
		})
		d.Students = students
		d.OverallProgress = overall
		return err
	})

	return g.Wait()
}

// roster lists the students matching sq with their progress. The overall
// figure always covers the whole roster, ignoring the name search.
func (c *Composer) roster(
	ctx context.Context,
	caller access.Identity,
	sq directory.StudentQuery,
) ([]progress.StudentProgress, *float64, error) {
	students, err := c.directory.ListStudents(ctx, caller, caller.EntityID, sq)
	if err != nil {
		return nil, nil, err
	}

	shown, err := c.progress.Overview(ctx, students)
	if err != nil {
		return nil, nil, err
	}

	overall := shown.Overall
	if sq.Search != "" {
		sq.Search = ""
		all, err := c.directory.ListStudents(ctx, caller, caller.EntityID, sq)
		if err != nil {
			return nil, nil, err
		}
		full, err := c.progress.Overview(ctx, all)
		if err != nil {
			return nil, nil, err
		}
		overall = full.Overall
	}

	return shown.Students, &overall, nil
}

func (c *Composer) student(ctx context.Context, caller access.Identity, d *Dashboard) error {
	self, err := c.directory.User(ctx, caller, caller.UserID)
	if err != nil {
		return err
	}

	profile := user.ToUserResponse(self)
	d.Profile = &profile

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lessons, err := c.directory.LoadStudentLessons(gctx, self)
		if err != nil {
			return err
		}
		tally := progress.TallyLessons(lessons)
		d.Lessons = lessons
		d.Progress = &tally
		return nil
	})

	g.Go(func() error {
		syl, err := c.directory.AssignedSyllabus(gctx, self)
		if err != nil {
			return err
		}
		if syl != nil {
			name := syl.DisplayName()
			d.Syllabus = &name
		}
		return nil
	})

	if c.quotes != nil {
		g.Go(func() error {
			q, err := c.quotes.Random(gctx)
			if err != nil {
				slog.WarnContext(ctx, "dashboard quote unavailable", "error", err)
				return nil
			}
			d.Quote = q
			return nil
		})
	}

	return g.Wait()
}
