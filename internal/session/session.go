// Package session はサーバー側セッションの発行・解決・破棄を提供します。
//
// クライアントが保持するのは不透明なトークンだけで、トークンとユーザーの
// 対応付けは Backend（プロセス内メモリまたは Redis）が保持します。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrSession は下位のセッションストアが失敗したことを表します。
var ErrSession = errors.New("session store failure")

// Session はトークンに紐付いた認証済みユーザーです。
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	IssuedAt   time.Time `json:"issuedAt"`
	LastActive time.Time `json:"lastActive"`
}

// Backend はセッションの保存先です。
type Backend interface {
	// Save はセッションを保存します。ttl が 0 の場合は期限なしです。
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Get は存在しない場合 (nil, nil) を返します。
	Get(ctx context.Context, token string) (*Session, error)
	// Delete は存在しないトークンに対しても成功します。
	Delete(ctx context.Context, token string) error
}

// Options はセッションの有効期限設定です。0 はその制限を無効にします。
type Options struct {
	MaxLifetime time.Duration
	IdleTimeout time.Duration
}

// Manager はセッションの状態遷移（未認証 → 認証済み → 破棄）を管理します。
type Manager struct {
	backend Backend
	opts    Options
	now     func() time.Time
}

// NewManager は Manager を作成します。
func NewManager(backend Backend, opts Options) *Manager {
	return &Manager{
		backend: backend,
		opts:    opts,
		now:     time.Now,
	}
}

// Create は新しいトークンを発行してユーザーに紐付けます。
func (m *Manager) Create(ctx context.Context, userID, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	now := m.now()
	s := &Session{
		Token:      token,
		UserID:     userID,
		Username:   username,
		IssuedAt:   now,
		LastActive: now,
	}
	if err := m.backend.Save(ctx, s, m.ttl(s, now)); err != nil {
		return "", fmt.Errorf("%w: save: %v", ErrSession, err)
	}
	return token, nil
}

// Resolve はトークンに紐付いたセッションを返します。
// 未知・破棄済み・期限切れのトークンでは (nil, nil) を返し、呼び出し側は
// 「未ログイン」として扱います。error はストア障害の場合だけです。
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	s, err := m.backend.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", ErrSession, err)
	}
	if s == nil {
		return nil, nil
	}

	now := m.now()
	if m.expired(s, now) {
		if err := m.backend.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("%w: delete expired: %v", ErrSession, err)
		}
		return nil, nil
	}

	if m.opts.IdleTimeout > 0 {
		s.LastActive = now
		if err := m.backend.Save(ctx, s, m.ttl(s, now)); err != nil {
			return nil, fmt.Errorf("%w: touch: %v", ErrSession, err)
		}
	}
	return s, nil
}

// Destroy はセッションを無効化します。未知のトークンでも成功します。
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.backend.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrSession, err)
	}
	return nil
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	if m.opts.MaxLifetime > 0 && now.Sub(s.IssuedAt) > m.opts.MaxLifetime {
		return true
	}
	if m.opts.IdleTimeout > 0 && now.Sub(s.LastActive) > m.opts.IdleTimeout {
		return true
	}
	return false
}

// ttl はバックエンドに保存する残り寿命を返します。
func (m *Manager) ttl(s *Session, now time.Time) time.Duration {
	var ttl time.Duration
	if m.opts.IdleTimeout > 0 {
		ttl = m.opts.IdleTimeout
	}
	if m.opts.MaxLifetime > 0 {
		remaining := s.IssuedAt.Add(m.opts.MaxLifetime).Sub(now)
		if remaining <= 0 {
			remaining = time.Second
		}
		if ttl == 0 || remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
