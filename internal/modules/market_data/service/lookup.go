package service

import (
	"context"
	"stock_watch/internal/models"
)

// Provider источник рыночных данных.
// (nil, nil) значит Absent: данных по тикеру нет, это не ошибка.
type Provider interface {
	FetchMetrics(ctx context.Context, code string) (*models.MetricsRecord, error)
}

// Lookup адаптер над Provider: жёсткие сбои приходят как *models.LookupError.
type Lookup struct {
	provider Provider
}

func NewLookup(provider Provider) *Lookup {
	return &Lookup{provider: provider}
}

func (l *Lookup) FetchMetrics(ctx context.Context, code string) (*models.MetricsRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.LookupError{Symbol: code, Err: err}
	}
	rec, err := l.provider.FetchMetrics(ctx, code)
	if err != nil {
		return nil, &models.LookupError{Symbol: code, Err: err}
	}
	if rec == nil {
		return nil, nil
	}
	if rec.Symbol == "" {
		rec.Symbol = code
	}
	return rec, nil
}
