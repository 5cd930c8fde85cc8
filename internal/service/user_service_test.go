package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/drivedesk/drivedesk-api/internal/models"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	byEmail     map[string]*models.User
	listErr     error
	createCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (m *mockUserRepo) List(_ context.Context, _ models.UserFilter) ([]models.User, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.createCalls++
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "Jane@Example.com",
		FullName: "Jane Doe",
		Role:     models.RoleInstructor,
		Active:   true,
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleInstructor, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.Equal(t, 1, repo.createCalls)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.byEmail["jane@example.com"] = &models.User{ID: "u1", Email: "jane@example.com"}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		Role:     models.RoleStudent,
		Password: "secret123",
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 0, repo.createCalls)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	cases := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing email", CreateUserRequest{FullName: "X", Role: models.RoleStudent, Password: "secret123"}},
		{"bad role", CreateUserRequest{Email: "a@b.de", FullName: "X", Role: "SUPERUSER", Password: "secret123"}},
		{"short password", CreateUserRequest{Email: "a@b.de", FullName: "X", Role: models.RoleStudent, Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestUserServiceUpdate(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Email: "jane@example.com", FullName: "Jane", Role: models.RoleStudent, Active: true}
	svc := NewUserService(repo, nil, nil)

	inactive := false
	user, err := svc.Update(context.Background(), "u1", UpdateUserRequest{
		FullName: "Jane Doe",
		Role:     models.RoleInstructor,
		Active:   &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.FullName)
	assert.Equal(t, models.RoleInstructor, user.Role)
	assert.False(t, user.Active)
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUserServiceDelete(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &models.User{ID: "u1"}
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Empty(t, repo.users)

	err := svc.Delete(context.Background(), "u1")
	require.Error(t, err)
}
