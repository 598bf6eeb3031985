package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Summary is the KPI snapshot shown on the dashboard screen.
type Summary struct {
	Students        int     `json:"students"`
	Teachers        int     `json:"teachers"`
	Classes         int     `json:"classes"`
	TasksInProgress int     `json:"tasks_in_progress"`
	TasksCompleted  int     `json:"tasks_completed"`
	AverageProgress float64 `json:"average_progress"`
	GeneratedAt     string  `json:"generated_at"`
}

// TokenSource supplies the bearer credential for summary requests.
type TokenSource interface {
	Token() string
}

// Poller refreshes the dashboard summary on a fixed interval. It runs in
// its own goroutine, keeps the last good snapshot across failures, and
// shares no state with the CRUD controllers.
type Poller struct {
	http     *http.Client
	baseURL  string
	tokens   TokenSource
	interval time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot *Summary
	lastErr  error
}

// NewPoller constructs a poller against GET {baseURL}/dashboard/summary.
func NewPoller(baseURL string, httpClient *http.Client, tokens TokenSource, interval time.Duration, logger *zap.Logger) *Poller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{http: httpClient, baseURL: baseURL, tokens: tokens, interval: interval, logger: logger}
}

// Run polls until ctx is cancelled. The first refresh fires immediately.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Snapshot returns the last good summary, nil before the first success.
func (p *Poller) Snapshot() *Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// LastError returns the most recent refresh failure, nil after a success.
func (p *Poller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *Poller) refresh(ctx context.Context) {
	summary, err := p.fetch(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err
		p.logger.Warn("dashboard refresh failed", zap.Error(err))
		return
	}
	p.snapshot = summary
	p.lastErr = nil
}

func (p *Poller) fetch(ctx context.Context) (*Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/dashboard/summary", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard request")
	}
	if p.tokens != nil {
		if token := p.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "failed to read dashboard response")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, appErrors.Clone(appErrors.ErrAuthExpired, "")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.New(appErrors.ErrServer.Code, resp.StatusCode, "dashboard request failed")
	}

	var envelope struct {
		Data *Summary `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	var summary Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
	}
	return &summary, nil
}
