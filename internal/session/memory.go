package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time // ゼロ値は期限なし
}

// MemoryBackend はプロセス内の map にセッションを保持します。
// 単一インスタンス構成向けです。
type MemoryBackend struct {
	lock    sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend は空の MemoryBackend を作成します。
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (b *MemoryBackend) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{session: *s}
	if ttl > 0 {
		entry.expiresAt = b.now().Add(ttl)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	b.entries[s.Token] = entry
	return nil
}

func (b *MemoryBackend) Get(ctx context.Context, token string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.lock.Lock()
	defer b.lock.Unlock()

	entry, ok := b.entries[token]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && b.now().After(entry.expiresAt) {
		delete(b.entries, token)
		return nil, nil
	}
	s := entry.session
	return &s, nil
}

func (b *MemoryBackend) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	delete(b.entries, token)
	return nil
}

// Sweep は期限切れのエントリを削除し、残りの件数を返します。
func (b *MemoryBackend) Sweep() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	now := b.now()
	for token, entry := range b.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(b.entries, token)
		}
	}
	return len(b.entries)
}

// Len は保持しているエントリ数を返します。
func (b *MemoryBackend) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.entries)
}
