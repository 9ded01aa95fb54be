package memory

import (
	"context"
	"stock_watch/internal/models"
	"sync"
)

type Symbols struct {
	mu   sync.RWMutex
	data []models.TrackedSymbol
}

// NewSymbols instance
func NewSymbols(seed ...string) *Symbols {
	s := &Symbols{}
	for _, code := range seed {
		s.data = append(s.data, models.TrackedSymbol{Code: code})
	}
	return s
}

func (s *Symbols) List(ctx context.Context) ([]models.TrackedSymbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.CloneSymbols(s.data)
	if out == nil {
		out = []models.TrackedSymbol{}
	}
	return out, nil
}

// Add не проверяет дубликаты
func (s *Symbols) Add(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, models.TrackedSymbol{Code: code})
	return nil
}

func (s *Symbols) Remove(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.data[:0:0]
	for _, sym := range s.data {
		if sym.Code != code {
			kept = append(kept, sym)
		}
	}
	s.data = kept
	return nil
}
