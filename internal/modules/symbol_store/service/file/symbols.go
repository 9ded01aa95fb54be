package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stock_watch/internal/models"

	"github.com/bytedance/sonic"
)

const defaultPath = "data/watchlist.json"

type Symbols struct {
	path string

	mu     sync.Mutex
	cache  []models.TrackedSymbol
	loaded bool
}

func NewSymbols(path string) *Symbols {
	if path == "" {
		path = defaultPath
	}
	return &Symbols{path: path}
}

func (s *Symbols) List(ctx context.Context) ([]models.TrackedSymbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	out := models.CloneSymbols(s.cache)
	if out == nil {
		out = []models.TrackedSymbol{}
	}
	return out, nil
}

func (s *Symbols) Add(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	next := append(models.CloneSymbols(s.cache), models.TrackedSymbol{Code: code})
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.cache = next
	return nil
}

func (s *Symbols) Remove(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	next := make([]models.TrackedSymbol, 0, len(s.cache))
	for _, sym := range s.cache {
		if sym.Code != code {
			next = append(next, sym)
		}
	}
	if len(next) == len(s.cache) {
		return nil
	}
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.cache = next
	return nil
}

// ---- storage format ----

type snapshot struct {
	UpdatedAt time.Time              `json:"updated_at"`
	Symbols   []models.TrackedSymbol `json:"symbols"`
}

func (s *Symbols) loadLocked() error {
	if s.loaded {
		return nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var snap snapshot
	if err := sonic.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}

	s.cache = s.cache[:0]
	for _, sym := range snap.Symbols {
		if sym.Code == "" {
			continue
		}
		s.cache = append(s.cache, sym)
	}

	s.loaded = true
	return nil
}

// saveLocked пишет во временный файл и переименовывает, кэш меняется только после успеха
func (s *Symbols) saveLocked(symbols []models.TrackedSymbol) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	snap := snapshot{
		UpdatedAt: time.Now(),
		Symbols:   symbols,
	}

	b, err := sonic.ConfigStd.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
