package service

import (
	"sync/atomic"
	"time"

	"stock_watch/internal/models"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastSyncUnix atomic.Int64 // unix seconds
	syncs        atomic.Int64
	version      atomic.Uint64 // последняя учтённая версия Dataset
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// TouchSync отмечает закоммиченный цикл синхронизации
func (s *State) TouchSync(t time.Time) {
	s.lastSyncUnix.Store(t.Unix())
	s.syncs.Add(1)
}

// Observe учитывает снапшот движка: только новый коммит двигает счётчики и готовность.
// Смены состояния без коммита (ошибка, no-op add) игнорируются.
func (s *State) Observe(snap models.Snapshot) {
	for {
		seen := s.version.Load()
		if snap.Version <= seen {
			return
		}
		if s.version.CompareAndSwap(seen, snap.Version) {
			break
		}
	}
	s.TouchSync(snap.CommittedAt)
	s.SetReady(true)
}

func (s *State) LastSync() time.Time {
	u := s.lastSyncUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Syncs() int64 { return s.syncs.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
