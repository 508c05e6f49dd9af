package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/repository"
)

type mockAuthRepository struct {
	mock.Mock
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockAuthRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *mockAuthRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "ivan@example.com",
		Password: "Password1!",
		Name:     "Иван Петров",
		Role:     models.RoleCustomer,
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	res, err := svc.Register(ctx, validRegisterInput(), map[string]string{"ip": "127.0.0.1"})

	assert.NoError(t, err)
	assert.Equal(t, "ivan@example.com", res.User.Email)
	assert.Equal(t, models.RoleCustomer, res.User.Role)
	assert.NotEmpty(t, res.TokenPair.AccessToken)
	assert.NotEmpty(t, res.TokenPair.RefreshToken)
	// Пароль хранится только в виде bcrypt-хеша.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("Password1!")))
}

func TestAuthService_Register_DefaultsToCustomer(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	in := validRegisterInput()
	in.Role = ""

	res, err := svc.Register(ctx, in, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, res.User.Role)
}

func TestAuthService_Register_RejectsAdminRole(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	in := validRegisterInput()
	in.Role = models.RoleAdmin

	_, err := svc.Register(ctx, in, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимая роль")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, validRegisterInput(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "уже зарегистрирован")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	in := validRegisterInput()
	in.Password = "123"

	_, err := svc.Register(ctx, in, nil)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(user, nil)
	repo.On("UpdateLastLoginAt", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	res, err := svc.Login(ctx, LoginInput{Email: "Ivan@example.com", Password: "Password1!"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotEmpty(t, res.TokenPair.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
	}, nil)

	_, err = svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "wrong"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "неверный email или пароль")
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Password1!"}, nil)
	assert.Error(t, err)
	// Не раскрываем, что именно неверно.
	assert.Contains(t, err.Error(), "неверный email или пароль")
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	repo := new(mockAuthRepository)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Email: "ivan@example.com", Role: models.RoleHandyman}
	pair, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	repo.AssertCalled(t, "DeleteSession", ctx, pair.RefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	repo := new(mockAuthRepository)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt", nil)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
