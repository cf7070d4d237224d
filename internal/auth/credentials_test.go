package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/rrmms-api/internal/model"
	"github.com/yourusername/rrmms-api/internal/storage/memstore"
)

type brokenUserStore struct{ err error }

func (s brokenUserStore) CreateUser(context.Context, *model.User) error { return s.err }
func (s brokenUserStore) GetUserByUsername(context.Context, string) (*model.User, error) {
	return nil, s.err
}

func TestRegisterThenVerify(t *testing.T) {
	store := memstore.New()
	creds := NewCredentials(store, bcrypt.MinCost)
	ctx := context.Background()

	user, err := creds.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.Password)

	stored, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	verified, err := creds.Verify(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestVerifyRejectsWrongPasswordAndUnknownUser(t *testing.T) {
	creds := NewCredentials(memstore.New(), bcrypt.MinCost)
	ctx := context.Background()
	_, err := creds.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = creds.Verify(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = creds.Verify(ctx, "mallory", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = creds.Verify(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := memstore.New()
	creds := NewCredentials(store, bcrypt.MinCost)
	ctx := context.Background()

	_, err := creds.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = creds.Register(ctx, "alice", "another")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Equal(t, 1, store.CountUsers())

	// 最初のパスワードが有効なまま
	_, err = creds.Verify(ctx, "alice", "secret1")
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	creds := NewCredentials(memstore.New(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := creds.Register(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmptyPasswordIsAccepted(t *testing.T) {
	creds := NewCredentials(memstore.New(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := creds.Register(ctx, "alice", "")
	require.NoError(t, err)

	_, err = creds.Verify(ctx, "alice", "")
	assert.NoError(t, err)
	_, err = creds.Verify(ctx, "alice", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLongPasswordIsTruncatedTo72Bytes(t *testing.T) {
	creds := NewCredentials(memstore.New(), bcrypt.MinCost)
	ctx := context.Background()
	long := strings.Repeat("p", 73)

	_, err := creds.Register(ctx, "alice", long)
	require.NoError(t, err)

	_, err = creds.Verify(ctx, "alice", long)
	assert.NoError(t, err)
	// 73 バイト目以降は照合に使われない
	_, err = creds.Verify(ctx, "alice", strings.Repeat("p", 72)+"different tail")
	assert.NoError(t, err)
	_, err = creds.Verify(ctx, "alice", strings.Repeat("p", 71))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStoreFailuresAreNotDomainErrors(t *testing.T) {
	boom := errors.New("connection reset")
	creds := NewCredentials(brokenUserStore{err: boom}, bcrypt.MinCost)
	ctx := context.Background()

	_, err := creds.Register(ctx, "alice", "secret1")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)

	_, err = creds.Verify(ctx, "alice", "secret1")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewCredentialsClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewCredentials(memstore.New(), 0).cost)
	assert.Equal(t, DefaultBcryptCost, NewCredentials(memstore.New(), 99).cost)
	assert.Equal(t, 12, NewCredentials(memstore.New(), 12).cost)
}
