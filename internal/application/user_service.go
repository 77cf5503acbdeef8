package application

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/internal/domain/entity"
	repo "github.com/oksasatya/user-events-service/internal/domain/repository"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

const (
	minNameLength = 3
	msgEmailTaken = "the email has already been taken"
)

type UserService struct {
	Repo     repo.UserRepository
	Notifier *Notifier
	Logger   *logrus.Logger
	newUUID  func() string
}

func NewUserService(repo repo.UserRepository, notifier *Notifier, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Notifier: notifier, Logger: logger, newUUID: uuid.NewString}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string // optional; users without one cannot log in
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mapRepoErr translates repository sentinels into client facing errors.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrUserNotFound):
		return apperror.NotFound("user not found")
	case errors.Is(err, repo.ErrEmailTaken):
		return apperror.Conflict("email", msgEmailTaken)
	default:
		return apperror.Unexpected(err)
	}
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

// Create persists a new user and, only after the write succeeded, makes a single
// publish attempt. The returned user and error reflect the write alone.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, apperror.Validation("validation failed", map[string]string{"name": "must be at least 3 characters long"})
	}
	u := &entity.User{
		UUID:  s.newUUID(),
		Name:  name,
		Email: normalizeEmail(in.Email),
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, apperror.Unexpected(err)
		}
		u.Password = hash
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, mapRepoErr(err)
	}
	helpers.LogInfo(s.Logger, "user created", logrus.Fields{"user_id": u.ID, "uuid": u.UUID})

	s.Notifier.NotifyUserCreated(u)
	return u, nil
}

// Update applies a partial change. Validation and uniqueness failures render as 422,
// and a failed update leaves the stored record untouched.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	var patch entity.UserPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			return nil, apperror.Validation("validation failed", map[string]string{"name": "must be at least 3 characters long"}).
				WithStatus(http.StatusUnprocessableEntity)
		}
		patch.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		patch.Email = &email
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, apperror.Unexpected(err)
		}
		patch.Password = &hash
	}

	if patch.Empty() {
		return s.Get(ctx, id)
	}
	u, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, apperror.Conflict("email", msgEmailTaken).WithStatus(http.StatusUnprocessableEntity)
		}
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	helpers.LogInfo(s.Logger, "user deleted", logrus.Fields{"user_id": id})
	return nil
}
