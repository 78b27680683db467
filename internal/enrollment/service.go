// AngelaMos | 2026
// service.go

package enrollment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// Metrics receives provisioning events.
type Metrics interface {
	UserCreated(privilege string)
	EntitySignup()
	LessonProgress(status string)
	SyllabusVersioned()
}

type nopMetrics struct{}

func (nopMetrics) UserCreated(string)    {}
func (nopMetrics) EntitySignup()         {}
func (nopMetrics) LessonProgress(string) {}
func (nopMetrics) SyllabusVersioned()    {}

type Deps struct {
	Tx            core.Transactor
	Entities      entity.Repository
	Users         user.Repository
	Ratings       rating.Repository
	Subscriptions subscription.Repository
	Syllabi       syllabus.Repository
	Progress      syllabus.ProgressRepository
	Hasher        core.PasswordHasher
	Metrics       Metrics
	Instructors   []access.Privilege
}

// Service owns every write that provisions or changes tenants, users,
// syllabi and lesson progress.
type Service struct {
	tx            core.Transactor
	entities      entity.Repository
	users         user.Repository
	ratings       rating.Repository
	subscriptions subscription.Repository
	syllabi       syllabus.Repository
	progress      syllabus.ProgressRepository
	hasher        core.PasswordHasher
	metrics       Metrics
	instructors   []access.Privilege
	validator     *validator.Validate
	now           func() time.Time
}

func NewService(d Deps) *Service {
	m := d.Metrics
	if m == nil {
		m = nopMetrics{}
	}

	instructors := d.Instructors
	if len(instructors) == 0 {
		instructors = access.Instructors(true)
	}

	return &Service{
		tx:            d.Tx,
		entities:      d.Entities,
		users:         d.Users,
		ratings:       d.Ratings,
		subscriptions: d.Subscriptions,
		syllabi:       d.Syllabi,
		progress:      d.Progress,
		hasher:        d.Hasher,
		metrics:       m,
		instructors:   instructors,
		validator:     core.NewValidator(),
		now:           time.Now,
	}
}

// Signup is the anonymous path that opens a new entity.
func (s *Service) Signup(ctx context.Context, req auth.SignupRequest) (*Provisioned, error) {
	e, admin, err := s.createEntityWithAdmin(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Provisioned{Entity: e, Admin: user.ToUserResponse(admin)}, nil
}

// CreateEntity lets a global user open an entity on someone's behalf.
func (s *Service) CreateEntity(
	ctx context.Context,
	caller access.Identity,
	req auth.SignupRequest,
) (*Provisioned, error) {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return nil, err
	}

	return s.Signup(ctx, req)
}

// RegisterEntity adapts Signup for the auth flow.
func (s *Service) RegisterEntity(ctx context.Context, req auth.SignupRequest) (*auth.UserInfo, error) {
	_, admin, err := s.createEntityWithAdmin(ctx, req)
	if err != nil {
		return nil, err
	}

	return user.ToUserInfo(admin), nil
}

// createEntityWithAdmin writes the entity and its admin in one
// transaction. Either both rows exist afterwards or neither does.
func (s *Service) createEntityWithAdmin(
	ctx context.Context,
	req auth.SignupRequest,
) (e *entity.Entity, admin *user.User, err error) {
	ctx, span := core.StartSpan(ctx, "enrollment.create_entity_with_admin")
	defer func() { core.EndSpan(span, err) }()

	req.Normalize()
	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, nil, err
	}

	if _, err := subscription.RequireOffered(ctx, s.subscriptions, "subscription_id", req.SubscriptionID); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	subscriptionID := req.SubscriptionID
	e = &entity.Entity{
		ID:             uuid.New().String(),
		Name:           req.EntityName(),
		Phone:          req.Phone,
		SubscriptionID: &subscriptionID,
	}
	admin = &user.User{
		ID:           uuid.New().String(),
		EntityID:     e.ID,
		Privilege:    access.PrivilegeAdmin,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.entities.Create(ctx, e); err != nil {
			return err
		}
		return s.users.Create(ctx, admin)
	})
	if err != nil {
		return nil, nil, conflictOnEmail(err)
	}

	span.SetAttributes(attribute.String("entity.id", e.ID))
	s.metrics.EntitySignup()
	s.metrics.UserCreated(admin.Privilege.String())

	return e, admin, nil
}

// CreateUser adds a user to an entity the actor administers.
func (s *Service) CreateUser(
	ctx context.Context,
	actor access.Identity,
	req CreateUserRequest,
) (result *CreatedUser, err error) {
	ctx, span := core.StartSpan(ctx, "enrollment.create_user")
	defer func() { core.EndSpan(span, err) }()

	if err := access.RequireRole(actor, access.PrivilegeAdmin); err != nil {
		return nil, err
	}

	req.Normalize()
	if req.EntityID == "" {
		req.EntityID = actor.EntityID
	}

	if !access.CanEditUser(actor, req.EntityID) {
		return nil, fmt.Errorf("create user in %s: %w", req.EntityID, core.ErrForbidden)
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if _, err := s.entities.GetByID(ctx, req.EntityID); err != nil {
		return nil, err
	}

	privilege, ok := access.PrivilegeForType(req.Type)
	if !ok {
		return nil, core.NewValidationError(core.FieldError{Field: "type", Message: "is not a valid user type"})
	}

	u := &user.User{
		ID:          uuid.New().String(),
		EntityID:    req.EntityID,
		Privilege:   privilege,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		HasGoldSeal: req.HasGoldSeal,
		CfiID:       req.CfiID,
		SyllabusID:  req.SyllabusID,
	}

	if err := s.checkUser(ctx, u); err != nil {
		return nil, err
	}

	ratings, err := rating.Resolve(ctx, s.ratings, "rating_ids", req.RatingIDs)
	if err != nil {
		return nil, err
	}

	password := core.StringValue(req.Password)
	temporary := ""
	if password == "" {
		if password, err = core.GenerateTemporaryPassword(); err != nil {
			return nil, fmt.Errorf("generate password: %w", err)
		}
		temporary = password
	}

	if u.PasswordHash, err = s.hasher.Hash(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		return s.users.ReplaceRatings(ctx, u.ID, ratingIDs(ratings))
	})
	if err != nil {
		return nil, conflictOnEmail(err)
	}
	u.Ratings = ratings

	s.metrics.UserCreated(privilege.String())

	return &CreatedUser{
		User:              user.ToUserResponse(u),
		TemporaryPassword: temporary,
	}, nil
}

// UpdateUser replaces the editable fields of userID. Ratings are replaced
// wholesale and privilege never changes here.
func (s *Service) UpdateUser(
	ctx context.Context,
	actor access.Identity,
	userID string,
	req UpdateUserRequest,
) (*user.User, error) {
	if actor.IsAnonymous() {
		return nil, fmt.Errorf("update user: %w", core.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditAccount(actor, u.EntityID, u.Privilege) {
		return nil, fmt.Errorf("update user %s: %w", userID, core.ErrForbidden)
	}

	req.Normalize()
	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = req.Email
	u.HasGoldSeal = req.HasGoldSeal
	u.CfiID = req.CfiID
	u.SyllabusID = req.SyllabusID

	if err := s.checkUser(ctx, u); err != nil {
		return nil, err
	}

	ratings, err := rating.Resolve(ctx, s.ratings, "rating_ids", req.RatingIDs)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		return s.users.ReplaceRatings(ctx, u.ID, ratingIDs(ratings))
	})
	if err != nil {
		return nil, conflictOnEmail(err)
	}
	u.Ratings = ratings

	return u, nil
}

// DeactivateUser stamps the inactive date. Deactivating an inactive user
// keeps the original date and succeeds.
func (s *Service) DeactivateUser(ctx context.Context, actor access.Identity, userID string) (*user.User, error) {
	return s.setUserActive(ctx, actor, userID, false)
}

func (s *Service) ReactivateUser(ctx context.Context, actor access.Identity, userID string) (*user.User, error) {
	return s.setUserActive(ctx, actor, userID, true)
}

func (s *Service) setUserActive(
	ctx context.Context,
	actor access.Identity,
	userID string,
	active bool,
) (*user.User, error) {
	if actor.IsAnonymous() {
		return nil, fmt.Errorf("set user active: %w", core.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditAccount(actor, u.EntityID, u.Privilege) {
		return nil, fmt.Errorf("set user %s active: %w", userID, core.ErrForbidden)
	}

	if u.IsActive() == active {
		return u, nil
	}

	var at *time.Time
	if !active {
		now := s.now().UTC()
		at = &now
	}

	if err := s.users.SetInactiveDate(ctx, u.ID, at); err != nil {
		return nil, err
	}
	u.InactiveDate = at

	return u, nil
}

// RecordLessonProgress upserts the single progress row for the student and
// lesson.
func (s *Service) RecordLessonProgress(
	ctx context.Context,
	actor access.Identity,
	userID string,
	lessonID int64,
	req ProgressRequest,
) (*syllabus.UserLesson, error) {
	if err := access.RequireRole(actor, access.PrivilegeCFI); err != nil {
		return nil, err
	}

	student, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.CanRecordProgress(actor, student.EntityID) {
		return nil, fmt.Errorf("record progress for %s: %w", userID, core.ErrForbidden)
	}

	req.Normalize()
	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if !student.IsStudent() {
		return nil, core.NewValidationError(core.FieldError{Field: "user_id", Message: "must be a student"})
	}

	lesson, err := s.syllabi.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if student.SyllabusID == nil || *student.SyllabusID != lesson.SyllabusID {
		return nil, core.NewValidationError(core.FieldError{
			Field:   "lesson_id",
			Message: "is not part of the student's syllabus",
		})
	}

	record := &syllabus.UserLesson{
		UserID:   student.ID,
		LessonID: lesson.ID,
		Status:   req.Status,
		Notes:    req.Notes,
	}
	if err := s.progress.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.LessonProgress(string(req.Status))

	return record, nil
}

// checkUser validates the structural invariants of u and that its
// instructor and syllabus assignments belong to the same entity.
func (s *Service) checkUser(ctx context.Context, u *user.User) error {
	if err := u.CheckInvariants(); err != nil {
		return err
	}

	verr := core.NewValidationError()

	if u.CfiID != nil {
		cfi, err := s.users.GetByID(ctx, *u.CfiID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			verr.Add("cfi_id", "does not exist")
		case err != nil:
			return err
		case cfi.ID == u.ID || cfi.EntityID != u.EntityID || !cfi.IsActive() || !s.isInstructor(cfi.Privilege):
			verr.Add("cfi_id", "must be an active instructor of the same entity")
		}
	}

	if u.SyllabusID != nil {
		syl, err := s.syllabi.GetByID(ctx, *u.SyllabusID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			verr.Add("syllabus_id", "does not exist")
		case err != nil:
			return err
		case syl.EntityID != u.EntityID:
			verr.Add("syllabus_id", "must belong to the same entity")
		}
	}

	return verr.OrNil()
}

func (s *Service) isInstructor(p access.Privilege) bool {
	return slices.Contains(s.instructors, p)
}

func ratingIDs(ratings []rating.Rating) []int {
	ids := make([]int, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.ID)
	}
	return ids
}

func conflictOnEmail(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError("email")
	}
	return err
}
