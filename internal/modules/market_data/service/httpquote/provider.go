package httpquote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_watch/internal/models"

	"github.com/bytedance/sonic"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "stock_watch/1.0"
)

// Provider JSON-котировки по HTTP: GET {base}/quote/{code}, 404 = нет данных.
type Provider struct {
	httpClient *http.Client
	baseURL    string
}

func NewProvider(baseURL string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *Provider) FetchMetrics(ctx context.Context, code string) (*models.MetricsRecord, error) {
	endpoint := fmt.Sprintf("%s/quote/%s", p.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var rec models.MetricsRecord
	if err := sonic.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", code, err)
	}
	if rec.Symbol == "" {
		rec.Symbol = code
	}
	return &rec, nil
}
