package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/rrmms-api/internal/model"
	"github.com/yourusername/rrmms-api/internal/storage"
	"github.com/yourusername/rrmms-api/internal/validate"
)

// DefaultBcryptCost はパスワードハッシュの既定コストです。
const DefaultBcryptCost = 10

// maxPasswordBytes は bcrypt が評価するパスワードの最大バイト数です。
// これを超える部分はハッシュ化と照合の両方で切り捨てます。
const maxPasswordBytes = 72

// Credentials はユーザー名とパスワードハッシュの組を管理します。
type Credentials struct {
	store storage.UserStore
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentials は Credentials を作成します。cost が範囲外の場合は既定値を使います。
func NewCredentials(store storage.UserStore, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Credentials{store: store, cost: cost}
}

// Register はパスワードをハッシュ化してユーザーを登録します。
func (c *Credentials) Register(ctx context.Context, username, password string) (*model.User, error) {
	if res := validate.Credentials(username, password); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, res.Error())
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hash),
	}
	if err := c.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Verify はユーザー名とパスワードを照合し、一致した場合だけユーザーを返します。
// ユーザーが存在しない場合もハッシュ比較を行い、応答時間で存在を推測されないようにします。
func (c *Credentials) Verify(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(c.dummy(), passwordBytes(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), passwordBytes(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (c *Credentials) dummy() []byte {
	c.dummyOnce.Do(func() {
		c.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("rrmms-dummy-password"), c.cost)
	})
	return c.dummyHash
}

// passwordBytes は先頭 maxPasswordBytes バイトを返します。
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
