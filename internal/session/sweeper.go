package session

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSweepSchedule はメモリバックエンドを掃除する間隔です。
const DefaultSweepSchedule = "@every 1m"

// Sweeper は MemoryBackend の期限切れセッションを定期的に削除します。
type Sweeper struct {
	cron    *cron.Cron
	backend *MemoryBackend
	report  func(remaining int)
}

// NewSweeper は Sweeper を作成します。report は掃除のたびに残件数で呼ばれます（nil 可）。
func NewSweeper(backend *MemoryBackend, schedule string, report func(remaining int)) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(),
		backend: backend,
		report:  report,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start はバックグラウンドで掃除を開始します。
func (s *Sweeper) Start() {
	log.Info().Msg("Starting session sweeper")
	s.cron.Start()
}

// Stop は実行中の掃除の完了を待って停止します。
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	log.Info().Msg("Stopped session sweeper")
}

func (s *Sweeper) run() {
	remaining := s.backend.Sweep()
	log.Debug().Int("remaining", remaining).Msg("session sweep")
	if s.report != nil {
		s.report(remaining)
	}
}
