package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/password"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/services/auth"
	"github.com/magabrotheeeer/expense-tracker/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Мок для RevocationList
type RevocationMock struct {
	mock.Mock
}

func (m *RevocationMock) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	args := m.Called(ctx, tokenID, until)
	return args.Error(0)
}

func (m *RevocationMock) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type recorderStub struct {
	attempts []string
}

func (r *recorderStub) AuthAttempt(op, outcome string) {
	r.attempts = append(r.attempts, op+":"+outcome)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.GetHash(plain)
	require.NoError(t, err)
	return h
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      models.RegisterInput
		setupMocks func(r *UserRepoMock)
		wantID     string
		wantErr    error
		wantKind   apperr.Kind
	}{
		{
			name:  "successful registration",
			input: models.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret12", ProfilePicture: []byte{1, 2}},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(nil, storage.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "ana@x.io" &&
						user.Name == "Ana" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "secret12" &&
						password.CompareHash(user.PasswordHash, "secret12") == nil &&
						len(user.ProfilePicture) == 2
				})).Return("uid-1", nil).Once()
			},
			wantID: "uid-1",
		},
		{
			name:       "missing fields",
			input:      models.RegisterInput{Name: "  ", Email: "ana@x.io", Password: "secret12"},
			setupMocks: func(_ *UserRepoMock) {},
			wantKind:   apperr.KindValidation,
		},
		{
			name:  "email already in use",
			input: models.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret12"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(&models.User{ID: "uid-0"}, nil).Once()
			},
			wantErr:  apperr.ErrEmailInUse,
			wantKind: apperr.KindConflict,
		},
		{
			name:  "unique violation backstop",
			input: models.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret12"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(nil, storage.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("storage.CreateUser: %w", storage.ErrEmailTaken)).Once()
			},
			wantErr:  apperr.ErrEmailInUse,
			wantKind: apperr.KindConflict,
		},
		{
			name:  "repository error",
			input: models.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret12"},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(nil, errors.New("db error")).Once()
			},
			wantKind: apperr.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), new(RevocationMock))

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.input)
			if tt.wantID == "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
				assert.NotEqual(t, tt.input.Password, got.PasswordHash)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_RegisterLoginValidate(t *testing.T) {
	repo := new(UserRepoMock)
	revoked := new(RevocationMock)
	rec := &recorderStub{}
	svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), revoked, auth.WithRecorder(rec))
	ctx := context.Background()

	var stored models.User
	repo.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(nil, storage.ErrNotFound).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.User)
		stored.ID = "uid-ana"
	}).Return("uid-ana", nil).Once()

	user, err := svc.Register(ctx, models.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret12"})
	require.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(&stored, nil).Once()
	token, loggedIn, err := svc.Login(ctx, "ana@x.io", "secret12")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	revoked.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	identity, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "uid-ana", identity.ID)
	assert.NotEmpty(t, identity.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), identity.ExpiresAt, 2*time.Second)

	assert.Equal(t, []string{"register:success", "login:success"}, rec.attempts)
	repo.AssertExpectations(t)
	revoked.AssertExpectations(t)
}

func TestService_Login_FailuresAreIdentical(t *testing.T) {
	repo := new(UserRepoMock)
	svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), new(RevocationMock))
	ctx := context.Background()

	repo.On("GetUserByEmail", mock.Anything, "nobody@x.io").Return(nil, storage.ErrNotFound).Once()
	repo.On("GetUserByEmail", mock.Anything, "ana@x.io").
		Return(&models.User{ID: "uid-ana", Email: "ana@x.io", PasswordHash: mustHash(t, "secret12")}, nil).Once()

	_, _, unknownErr := svc.Login(ctx, "nobody@x.io", "secret12")
	_, _, wrongErr := svc.Login(ctx, "ana@x.io", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, apperr.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	repo.AssertExpectations(t)
}

func TestService_Login_RepositoryError(t *testing.T) {
	repo := new(UserRepoMock)
	svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), new(RevocationMock))

	repo.On("GetUserByEmail", mock.Anything, "ana@x.io").Return(nil, errors.New("connection refused")).Once()

	_, _, err := svc.Login(context.Background(), "ana@x.io", "secret12")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestService_ValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	token, err := maker.GenerateToken("uid-ana")
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		setup    func(r *RevocationMock)
		wantKind apperr.Kind
	}{
		{
			name:     "garbage token",
			token:    "not-a-token",
			setup:    func(_ *RevocationMock) {},
			wantKind: apperr.KindUnauthorized,
		},
		{
			name:  "revoked token",
			token: token,
			setup: func(r *RevocationMock) {
				r.On("IsRevoked", mock.Anything, mock.Anything).Return(true, nil).Once()
			},
			wantKind: apperr.KindUnauthorized,
		},
		{
			name:  "revocation store down",
			token: token,
			setup: func(r *RevocationMock) {
				r.On("IsRevoked", mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
			},
			wantKind: apperr.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revoked := new(RevocationMock)
			tt.setup(revoked)
			svc := auth.NewService(new(UserRepoMock), maker, revoked)

			identity, err := svc.ValidateToken(context.Background(), tt.token)
			assert.Nil(t, identity)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			revoked.AssertExpectations(t)
		})
	}
}

func TestService_Logout(t *testing.T) {
	revoked := new(RevocationMock)
	svc := auth.NewService(new(UserRepoMock), jwt.NewJWTMaker("secret", time.Hour), revoked)
	until := time.Now().Add(time.Hour)

	revoked.On("Revoke", mock.Anything, "jti-1", until).Return(nil).Once()
	require.NoError(t, svc.Logout(context.Background(), models.Identity{ID: "uid", TokenID: "jti-1", ExpiresAt: until}))

	revoked.On("Revoke", mock.Anything, "jti-2", until).Return(errors.New("redis down")).Once()
	err := svc.Logout(context.Background(), models.Identity{ID: "uid", TokenID: "jti-2", ExpiresAt: until})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	revoked.AssertExpectations(t)
}

func TestService_Profile(t *testing.T) {
	repo := new(UserRepoMock)
	svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), new(RevocationMock))

	repo.On("GetUserByID", mock.Anything, "uid-gone").Return(nil, storage.ErrNotFound).Once()
	_, err := svc.Profile(context.Background(), "uid-gone")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	repo.On("GetUserByID", mock.Anything, "uid-ana").Return(&models.User{ID: "uid-ana", Name: "Ana"}, nil).Once()
	user, err := svc.Profile(context.Background(), "uid-ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
}

func TestService_UpdateProfile(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name       string
		update     models.ProfileUpdate
		setupMocks func(r *UserRepoMock)
		check      func(t *testing.T, u *models.User)
		wantErr    error
	}{
		{
			name:   "rename keeps other fields",
			update: models.ProfileUpdate{Name: ptr("Ana Maria")},
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Name == "Ana Maria" && u.Email == "ana@x.io" && u.PasswordHash == "old-hash"
				})).Return(nil).Once()
			},
			check: func(t *testing.T, u *models.User) {
				assert.Equal(t, []byte{9}, u.ProfilePicture)
			},
		},
		{
			name:   "password is re-hashed",
			update: models.ProfileUpdate{Password: ptr("new-secret")},
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return password.CompareHash(u.PasswordHash, "new-secret") == nil
				})).Return(nil).Once()
			},
			check: func(t *testing.T, u *models.User) {
				assert.NotEqual(t, "new-secret", u.PasswordHash)
			},
		},
		{
			name:   "email taken by another user",
			update: models.ProfileUpdate{Email: ptr("bo@x.io")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "bo@x.io").Return(&models.User{ID: "uid-bo"}, nil).Once()
			},
			wantErr: apperr.ErrEmailInUse,
		},
		{
			name:   "unique violation on update",
			update: models.ProfileUpdate{Email: ptr("bo@x.io")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "bo@x.io").Return(nil, storage.ErrNotFound).Once()
				r.On("UpdateUser", mock.Anything, mock.Anything).Return(storage.ErrEmailTaken).Once()
			},
			wantErr: apperr.ErrEmailInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := auth.NewService(repo, jwt.NewJWTMaker("secret", time.Hour), new(RevocationMock))

			repo.On("GetUserByID", mock.Anything, "uid-ana").Return(&models.User{
				ID:             "uid-ana",
				Name:           "Ana",
				Email:          "ana@x.io",
				PasswordHash:   "old-hash",
				ProfilePicture: []byte{9},
			}, nil).Once()
			tt.setupMocks(repo)

			got, err := svc.UpdateProfile(context.Background(), "uid-ana", tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				tt.check(t, got)
			}
			repo.AssertExpectations(t)
		})
	}
}
