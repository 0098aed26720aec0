package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Felixnganga-max/kamson/internal/apperr"
	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/repository"
)

var errDuplicate = errors.New("duplicate key")

// mockUserRepo is an in-memory mock of UserRepository.
type mockUserRepo struct {
	byEmail map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]*models.User{}}
}

func (m *mockUserRepo) Insert(ctx context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errDuplicate
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newAuthService(repo *mockUserRepo) *AuthService {
	svc := NewAuthService(repo, "test-secret", time.Hour)
	svc.isDuplicate = func(err error) bool { return errors.Is(err, errDuplicate) }
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	u, err := svc.Register(context.Background(), "Kamson", "booking@kamson.co.ke", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	token, logged, err := svc.Login(context.Background(), "booking@kamson.co.ke", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.Register(context.Background(), "a", "x@y.z", "pw")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "b", "x@y.z", "pw")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 409, ae.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.Register(context.Background(), "a", "x@y.z", "right")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "x@y.z", "wrong")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 401, ae.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, _, err := svc.Login(context.Background(), "ghost@y.z", "pw")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 401, ae.Code)
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.VerifyToken("not.a.token")
	assert.Error(t, err)
}
