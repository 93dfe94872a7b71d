// Package auth содержит бизнес-логику регистрации, входа, проверки токенов и профиля.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/password"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID или storage.ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUser перезаписывает данные пользователя.
	UpdateUser(ctx context.Context, user models.User) error
}

// RevocationList хранит отозванные токены.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Recorder считает попытки аутентификации.
type Recorder interface {
	AuthAttempt(op, outcome string)
}

// Исходы попыток для Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoked  RevocationList
	recorder Recorder
}

// Option настраивает Service.
type Option func(*Service)

// WithRecorder подключает учёт попыток аутентификации.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, revoked RevocationList, opts ...Option) *Service {
	s := &Service{
		users:    users,
		jwtMaker: jwtMaker,
		revoked:  revoked,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy тратит на неизвестный email столько же времени, сколько на проверку пароля.
func compareDummy(plain string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = password.GetHash("expense-tracker-dummy-password")
	})
	_ = password.CompareHash(dummyHash, plain)
}

// Register создаёт пользователя с хэшированным паролем.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	const op = "auth.Register"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		s.record("register", OutcomeFailure)
		return nil, apperr.Validation("name, email and password are required")
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.record("register", OutcomeFailure)
		return nil, apperr.ErrEmailInUse
	case !errors.Is(err, storage.ErrNotFound):
		s.record("register", OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		s.record("register", OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	user := models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hashed,
		ProfilePicture: in.ProfilePicture,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			s.record("register", OutcomeFailure)
			return nil, apperr.ErrEmailInUse
		}
		s.record("register", OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	user.ID = id

	s.record("register", OutcomeSuccess)
	return &user, nil
}

// Login проверяет пароль и выпускает токен.
// Неизвестный email и неверный пароль дают одну и ту же ошибку.
func (s *Service) Login(ctx context.Context, email, plain string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			compareDummy(plain)
			s.record("login", OutcomeFailure)
			return "", nil, apperr.ErrInvalidCredentials
		}
		s.record("login", OutcomeError)
		return "", nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if err := password.CompareHash(user.PasswordHash, plain); err != nil {
		s.record("login", OutcomeFailure)
		return "", nil, apperr.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		s.record("login", OutcomeError)
		return "", nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	s.record("login", OutcomeSuccess)
	return token, user, nil
}

// ValidateToken проверяет токен и возвращает идентичность запроса.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.Identity, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, apperr.ErrUnauthorized.Message, err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if revoked {
		return nil, apperr.ErrUnauthorized
	}

	identity := &models.Identity{
		ID:      claims.UserID,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Logout отзывает токен запроса до истечения его срока.
func (s *Service) Logout(ctx context.Context, id models.Identity) error {
	const op = "auth.Logout"
	if err := s.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// Profile возвращает пользователя по ID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	const op = "auth.Profile"
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return user, nil
}

// UpdateProfile применяет частичное обновление профиля.
// Пароль хэшируется заново, занятый email даёт ErrEmailInUse.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email != user.Email {
			other, err := s.users.GetUserByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, apperr.ErrEmailInUse
			case err != nil && !errors.Is(err, storage.ErrNotFound):
				return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
			}
			user.Email = email
		}
	}
	if upd.Password != nil {
		hashed, err := password.GetHash(*upd.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
		}
		user.PasswordHash = hashed
	}
	if upd.ProfilePicture != nil {
		user.ProfilePicture = upd.ProfilePicture
	}

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailTaken):
			return nil, apperr.ErrEmailInUse
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return user, nil
}

func (s *Service) record(op, outcome string) {
	if s.recorder != nil {
		s.recorder.AuthAttempt(op, outcome)
	}
}
