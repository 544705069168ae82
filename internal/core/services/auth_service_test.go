package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

type mockUserRepo struct {
	store         map[string]*domain.User
	simulateError error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *u
	m.store[u.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newAuthService(repo domain.UserRepository) *services.AuthService {
	tokens := services.NewTokenService("test-secret", "test", time.Hour)
	return services.NewAuthService(repo, tokens)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Register(context.Background(), services.RegisterInput{
			Email:       "  Anna@Example.COM ",
			DisplayName: "Anna",
			Password:    "correct horse",
		})
		require.NoError(t, err)

		assert.Equal(t, "anna@example.com", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "correct horse", user.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), services.RegisterInput{
			Email:    "anna@example.com",
			Password: "another pass",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), services.RegisterInput{
			Email:    "not-an-email",
			Password: "long enough",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(context.Background(), services.RegisterInput{
			Email:    "bob@example.com",
			Password: "short",
		})
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Email:    "anna@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	t.Run("success issues a valid token", func(t *testing.T) {
		user, token, err := svc.Login(context.Background(), services.LoginInput{
			Email:    "anna@example.com",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		tokens := services.NewTokenService("test-secret", "test", time.Hour)
		subject, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), services.LoginInput{
			Email:    "anna@example.com",
			Password: "wrong password",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), services.LoginInput{
			Email:    "ghost@example.com",
			Password: "whatever pass",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
