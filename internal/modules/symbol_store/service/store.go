package service

import (
	"context"
	"stock_watch/internal/models"
)

// Store постоянное хранилище watch-list. Порядок List = порядок добавления.
// Remove отсутствующего кода не ошибка.
type Store interface {
	List(ctx context.Context) ([]models.TrackedSymbol, error)
	Add(ctx context.Context, code string) error
	Remove(ctx context.Context, code string) error
}

// Adapter оборачивает Store: любая ошибка хранилища наружу уходит как *models.PersistenceError.
// Дедупликацией занимается движок, не адаптер.
type Adapter struct {
	store Store
}

func NewAdapter(store Store) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) ListSymbols(ctx context.Context) ([]models.TrackedSymbol, error) {
	symbols, err := a.store.List(ctx)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list", Err: err}
	}
	return symbols, nil
}

func (a *Adapter) AddSymbol(ctx context.Context, code string) error {
	if err := a.store.Add(ctx, code); err != nil {
		return &models.PersistenceError{Op: "add", Code: code, Err: err}
	}
	return nil
}

func (a *Adapter) RemoveSymbol(ctx context.Context, code string) error {
	if err := a.store.Remove(ctx, code); err != nil {
		return &models.PersistenceError{Op: "remove", Code: code, Err: err}
	}
	return nil
}
