// Package memstore はプロセス内メモリで storage.Store を実装します。
// テストと STORE_DRIVER=memory での動作確認に使います。
package memstore

import (
	"context"
	"maps"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/yourusername/rrmms-api/internal/model"
	"github.com/yourusername/rrmms-api/internal/storage"
)

// Store は storage.Store のメモリ実装です。
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User // username -> user
	requests []model.Document
	profiles []model.Document
}

var _ storage.Store = (*Store)(nil)

// New は空の Store を作成します。
func New() *Store {
	return &Store{
		users: make(map[string]*model.User),
	}
}

// SeedRequests は requests コレクション相当のレコードを追加します。
// requests は外部システムが作成するため、API からは追加できません。
func (s *Store) SeedRequests(docs ...model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		cp := maps.Clone(doc)
		if _, ok := cp["_id"]; !ok {
			cp["_id"] = bson.NewObjectID()
		}
		s.requests = append(s.requests, cp)
	}
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return storage.ErrDuplicate
	}
	cp := *user
	s.users[user.Username] = &cp
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

// CountUsers は登録済みユーザー数を返します。
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) ListRequests(ctx context.Context) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, 0, len(s.requests))
	for _, doc := range s.requests {
		out = append(out, maps.Clone(doc))
	}
	return out, nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, requestID string, status any) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.requests {
		if id, ok := doc[model.FieldRequestID].(string); ok && id == requestID {
			doc[model.FieldStatus] = status
			return maps.Clone(doc), nil
		}
	}
	return nil, storage.ErrNotFound
}

// SeedProfiles は他のクライアントが書いたレコードを usermanagements1 相当に追加します。
func (s *Store) SeedProfiles(docs ...model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		cp := maps.Clone(doc)
		if _, ok := cp["_id"]; !ok {
			cp["_id"] = bson.NewObjectID()
		}
		s.profiles = append(s.profiles, cp)
	}
}

// CreateProfile は MongoDB と同じく BSON を経由してレコードに変換し、保存します。
func (s *Store) CreateProfile(ctx context.Context, profile *model.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile.ID.IsZero() {
		profile.ID = bson.NewObjectID()
	}
	raw, err := bson.Marshal(profile)
	if err != nil {
		return err
	}
	var doc model.Document
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, doc)
	return nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, 0, len(s.profiles))
	for _, doc := range s.profiles {
		out = append(out, maps.Clone(doc))
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
