package storage

import (
	"context"

	"github.com/yourusername/rrmms-api/internal/model"
)

// UserStore は認証用ユーザーの永続化を担います。
type UserStore interface {
	// CreateUser はユーザーを追加します。username が重複する場合は ErrDuplicate。
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByUsername は存在しない場合 (nil, nil) を返します。
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// RequestStore は requests コレクションへのアクセスを担います。
type RequestStore interface {
	ListRequests(ctx context.Context) ([]model.Document, error)
	// UpdateRequestStatus は更新後のレコードを返します。対象が無ければ ErrNotFound。
	UpdateRequestStatus(ctx context.Context, requestID string, status any) (model.Document, error)
}

// ProfileStore は usermanagements1 コレクションへのアクセスを担います。
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *model.Profile) error
	// ListProfiles は保存されているレコードを加工せずに返します。
	ListProfiles(ctx context.Context) ([]model.Document, error)
}

// Store はアプリケーションが必要とするストアをまとめたものです。
type Store interface {
	UserStore
	RequestStore
	ProfileStore

	Ping(ctx context.Context) error
	Close() error
}
