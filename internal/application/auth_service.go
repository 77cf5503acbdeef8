package application

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/internal/domain/entity"
	repo "github.com/oksasatya/user-events-service/internal/domain/repository"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

var (
	errInvalidCredentials = apperror.Auth("invalid credentials")
	errUnauthenticated    = apperror.Auth("unauthenticated")
)

// Token is the bearer credential returned to clients.
type Token struct {
	AccessToken string
	Type        string
	ExpiresIn   int // seconds
}

// AuthService issues and validates bearer tokens. Each user has at most one
// active session id; a token is only accepted while its sid is the stored one.
type AuthService struct {
	Users    *UserService
	Sessions repo.SessionRepository
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
	newSID   func() string
}

func NewAuthService(users *UserService, sessions repo.SessionRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, JWT: jwt, Logger: logger, newSID: uuid.NewString}
}

// issue starts a new session for u, replacing any previous one.
func (s *AuthService) issue(ctx context.Context, u *entity.User) (Token, error) {
	uid := strconv.FormatInt(u.ID, 10)
	sid := s.newSID()
	token, _, err := s.JWT.Generate(uid, sid)
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return Token{}, apperror.Unexpected(err)
	}
	if err := s.Sessions.Save(ctx, uid, sid, s.JWT.TTL); err != nil {
		return Token{}, apperror.Unexpected(err)
	}
	return Token{AccessToken: token, Type: "bearer", ExpiresIn: s.JWT.ExpiresIn()}, nil
}

// Register creates the user through the regular create pipeline, so it emits
// user.created as well, then logs the new user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, Token, error) {
	if password == "" {
		return nil, Token{}, apperror.Validation("validation failed", map[string]string{"password": "is required"})
	}
	u, err := s.Users.Create(ctx, CreateUserInput{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, Token{}, err
	}
	tok, err := s.issue(ctx, u)
	if err != nil {
		return nil, Token{}, err
	}
	return u, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Token, error) {
	u, err := s.Users.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, Token{}, errInvalidCredentials
		}
		return nil, Token{}, apperror.Unexpected(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, Token{}, errInvalidCredentials
	}
	tok, err := s.issue(ctx, u)
	if err != nil {
		return nil, Token{}, err
	}
	return u, tok, nil
}

// ValidateToken parses raw and checks it against the active session.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (*helpers.Claims, error) {
	if raw == "" {
		return nil, errUnauthenticated
	}
	claims, err := s.JWT.Parse(raw)
	if err != nil {
		return nil, errUnauthenticated
	}
	sid, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil, errUnauthenticated
		}
		return nil, apperror.Unexpected(err)
	}
	if sid != claims.SessionID {
		return nil, errUnauthenticated
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *helpers.Claims) error {
	if err := s.Sessions.Delete(ctx, claims.UserID); err != nil {
		return apperror.Unexpected(err)
	}
	helpers.LogInfo(s.Logger, "user logged out", logrus.Fields{"user_id": claims.UserID})
	return nil
}

// Refresh rotates the session id. The token used for the call stops working.
func (s *AuthService) Refresh(ctx context.Context, claims *helpers.Claims) (*entity.User, Token, error) {
	u, err := s.CurrentUser(ctx, claims)
	if err != nil {
		return nil, Token{}, err
	}
	tok, err := s.issue(ctx, u)
	if err != nil {
		return nil, Token{}, err
	}
	return u, tok, nil
}

// CurrentUser loads the user the token was issued for. A deleted user is unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, claims *helpers.Claims) (*entity.User, error) {
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, errUnauthenticated
	}
	u, err := s.Users.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, errUnauthenticated
		}
		return nil, apperror.Unexpected(err)
	}
	return u, nil
}
