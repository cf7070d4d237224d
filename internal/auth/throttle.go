package auth

import (
	"sync"
	"time"
)

var (
	loginWindow  = 15 * time.Minute
	lockDuration = 10 * time.Minute
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// throttle は IP ごとのログイン失敗回数を数え、上限に達した IP を一定時間ロックします。
// maxAttempts が 0 以下の場合は何もしません。
type throttle struct {
	maxAttempts int
	lock        sync.Mutex
	attempts    map[string]*attemptState
	now         func() time.Time
}

func newThrottle(maxAttempts int) *throttle {
	return &throttle{
		maxAttempts: maxAttempts,
		attempts:    make(map[string]*attemptState),
		now:         time.Now,
	}
}

func (t *throttle) enabled() bool {
	return t != nil && t.maxAttempts > 0
}

// checkLock はロック中であれば残り時間を返します。
func (t *throttle) checkLock(ip string) time.Duration {
	if !t.enabled() {
		return 0
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	state, ok := t.attempts[ip]
	if !ok {
		return 0
	}
	now := t.now()
	if now.After(state.lockedUntil) {
		return 0
	}
	return state.lockedUntil.Sub(now)
}

// recordFailure は失敗を記録し、ロックまでの残り回数を返します。
func (t *throttle) recordFailure(ip string) int {
	if !t.enabled() {
		return 0
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	now := t.now()
	t.prune(now)
	state, ok := t.attempts[ip]
	if !ok {
		state = &attemptState{firstAttempt: now}
		t.attempts[ip] = state
	}

	state.count++
	if state.count >= t.maxAttempts {
		state.lockedUntil = now.Add(lockDuration)
		state.count = t.maxAttempts
	}

	remaining := t.maxAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// prune は集計期間とロックの両方が終わった IP を削除します。呼び出し側でロックを保持すること。
func (t *throttle) prune(now time.Time) {
	for ip, state := range t.attempts {
		if state.expired(now) {
			delete(t.attempts, ip)
		}
	}
}

func (s *attemptState) expired(now time.Time) bool {
	return now.Sub(s.firstAttempt) > loginWindow && now.After(s.lockedUntil)
}

// size は保持している IP の数です。
func (t *throttle) size() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.attempts)
}

func (t *throttle) reset(ip string) {
	if !t.enabled() {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	delete(t.attempts, ip)
}
