package yahoo

import (
	"context"
	"stock_watch/internal/models"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
)

// EquityGetter сигнатура equity.Get, подменяется в тестах
type EquityGetter func(symbol string) (*finance.Equity, error)

// Provider котировки Yahoo Finance через piquette/finance-go
type Provider struct {
	get EquityGetter
}

func NewProvider() *Provider {
	return &Provider{get: equity.Get}
}

func NewProviderWithGetter(get EquityGetter) *Provider {
	return &Provider{get: get}
}

type result struct {
	eq  *finance.Equity
	err error
}

// FetchMetrics finance-go не принимает context, поэтому ждём результат или отмену.
func (p *Provider) FetchMetrics(ctx context.Context, code string) (*models.MetricsRecord, error) {
	ch := make(chan result, 1)
	go func() {
		eq, err := p.get(code)
		ch <- result{eq: eq, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if r.eq == nil {
			return nil, nil
		}
		return toRecord(code, r.eq), nil
	}
}

func toRecord(code string, eq *finance.Equity) *models.MetricsRecord {
	symbol := eq.Symbol
	if symbol == "" {
		symbol = code
	}
	return &models.MetricsRecord{
		Symbol:                      symbol,
		ChangePercent:               nonZero(eq.RegularMarketChangePercent),
		Price:                       nonZero(eq.RegularMarketPrice),
		TrailingAnnualDividendYield: nonZero(eq.TrailingAnnualDividendYield),
		TrailingPE:                  nonZero(eq.TrailingPE),
		ForwardPE:                   nonZero(eq.ForwardPE),
	}
}

// Yahoo отдаёт 0 вместо отсутствующего значения
func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return models.Float(v)
}
