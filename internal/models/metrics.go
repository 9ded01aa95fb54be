package models

import "time"

// MetricsRecord рыночные метрики по одному тикеру. Любое числовое поле может отсутствовать.
type MetricsRecord struct {
	Symbol                      string   `json:"symbol"`
	ChangePercent               *float64 `json:"regularMarketChangePercent,omitempty"`
	Price                       *float64 `json:"regularMarketPrice,omitempty"`
	DividendYield               *float64 `json:"dividendYield,omitempty"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield,omitempty"`
	TrailingPE                  *float64 `json:"trailingPE,omitempty"`
	ForwardPE                   *float64 `json:"forwardPE,omitempty"`
	ReturnOnAssets              *float64 `json:"returnOnAssets,omitempty"`
	ReturnOnEquity              *float64 `json:"returnOnEquity,omitempty"`
}

// Dataset упорядочен так же, как символы в хранилище на старте цикла.
type Dataset []MetricsRecord

func (d Dataset) Symbols() []string {
	out := make([]string, 0, len(d))
	for _, r := range d {
		out = append(out, r.Symbol)
	}
	return out
}

func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

type SyncState int

const (
	SyncIdle SyncState = iota
	SyncLoading
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Snapshot то, что видит слой отображения: последний закоммиченный Dataset и состояние.
type Snapshot struct {
	Dataset     Dataset   `json:"data"`
	State       SyncState `json:"-"`
	Loading     bool      `json:"loading"`
	Version     uint64    `json:"version"`
	CommittedAt time.Time `json:"committed_at"`
}

// Float helper для провайдеров и тестов
func Float(v float64) *float64 {
	return &v
}
