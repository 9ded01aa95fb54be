package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMetricsMapsEquity(t *testing.T) {
	p := NewProviderWithGetter(func(symbol string) (*finance.Equity, error) {
		eq := &finance.Equity{}
		eq.Symbol = symbol
		eq.RegularMarketPrice = 37.52
		eq.RegularMarketChangePercent = -1.25
		eq.TrailingPE = 4.1
		eq.ForwardPE = 0
		eq.TrailingAnnualDividendYield = 0.21
		return eq, nil
	})

	rec, err := p.FetchMetrics(context.Background(), "PETR4.SA")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "PETR4.SA", rec.Symbol)
	assert.InDelta(t, 37.52, *rec.Price, 1e-9)
	assert.InDelta(t, -1.25, *rec.ChangePercent, 1e-9)
	assert.InDelta(t, 4.1, *rec.TrailingPE, 1e-9)
	assert.InDelta(t, 0.21, *rec.TrailingAnnualDividendYield, 1e-9)
	assert.Nil(t, rec.ForwardPE)
	assert.Nil(t, rec.ReturnOnEquity)
}

func TestFetchMetricsAbsent(t *testing.T) {
	p := NewProviderWithGetter(func(string) (*finance.Equity, error) { return nil, nil })

	rec, err := p.FetchMetrics(context.Background(), "GONE3")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchMetricsError(t *testing.T) {
	boom := errors.New("remote-error")
	p := NewProviderWithGetter(func(string) (*finance.Equity, error) { return nil, boom })

	_, err := p.FetchMetrics(context.Background(), "AAA")
	assert.ErrorIs(t, err, boom)
}

func TestFetchMetricsContextDone(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := NewProviderWithGetter(func(string) (*finance.Equity, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.FetchMetrics(ctx, "SLOW3")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
