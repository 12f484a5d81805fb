package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/repository"
)

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return domain.User{}, repository.ErrUsernameExists
	}

	user.ID = uint(len(f.users) + 1)
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Username:   "alice",
		Password:   "secret123",
		IsMerchant: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsMerchant)

	// The stored password is a bcrypt hash, never the plaintext.
	stored := repo.users["alice"]
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	_, err = svc.Signup(context.Background(), domain.User{Username: "alice", Password: "other456"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice", "wrong456")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown username reads the same as a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "bob", "secret123")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})
}
