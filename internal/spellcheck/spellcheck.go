// Package spellcheck checks field copy against a spell-check backend. Fields
// are checked concurrently on a worker pool, backend answers are cached by
// text, and a rate-limit answer silences the backend for a cooldown window.
// Whenever the backend is unavailable a local rule checker answers instead.
package spellcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/lint"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/worker"
)

// Defaults applied by New.
const (
	DefaultTimeout   = 5 * time.Second
	DefaultCooldown  = 60 * time.Second
	DefaultCacheSize = 512
)

// ErrRateLimited is returned by the backend call on HTTP 429.
var ErrRateLimited = errors.New("spell-check backend rate limited")

// Issue is one spelling or style problem in a field.
type Issue struct {
	Token       string   `json:"token"`
	Suggestions []string `json:"suggestions"`
	Info        string   `json:"info,omitempty"`
	Source      string   `json:"source"`
}

// FieldText is one field to check.
type FieldText struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// Result is the spellcheck-result payload.
type Result struct {
	PerFieldErrors map[string][]Issue `json:"perFieldErrors"`
	FallbackUsed   bool               `json:"fallbackUsed"`
	RateLimited    bool               `json:"rateLimited"`
	Notice         string             `json:"notice,omitempty"`
}

// ProgressFunc receives the number of finished fields after each one.
type ProgressFunc func(done, total int)

// Options configures a Checker. An empty Endpoint checks locally only.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	Cooldown  time.Duration
	CacheSize int
}

// Checker is safe for concurrent use.
type Checker struct {
	endpoint string
	client   *http.Client
	cooldown time.Duration
	pool     *worker.Pool
	cache    *lru.Cache[string, []Issue]
	engine   func() *lint.Engine
	now      func() time.Time

	mu           sync.Mutex
	blockedUntil time.Time
}

// New returns a Checker. A nil pool checks fields sequentially.
func New(opts Options, pool *worker.Pool, engine func() *lint.Engine) (*Checker, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if engine == nil {
		engine = func() *lint.Engine { return lint.New(nil) }
	}
	cache, err := lru.New[string, []Issue](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("spellcheck cache: %w", err)
	}
	return &Checker{
		endpoint: opts.Endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		cooldown: opts.Cooldown,
		pool:     pool,
		cache:    cache,
		engine:   engine,
		now:      time.Now,
	}, nil
}

type fieldResult struct {
	field    string
	issues   []Issue
	fallback bool
	limited  bool
}

// Check checks every non-empty field and reports progress after each one.
// It never fails: fields the backend cannot check are checked locally, and
// fields still pending when ctx ends are checked locally too.
func (c *Checker) Check(ctx context.Context, fields []FieldText, progress ProgressFunc) Result {
	var todo []FieldText
	pending := map[string]bool{}
	for _, f := range fields {
		if f.Text != "" && !pending[f.Field] {
			pending[f.Field] = true
			todo = append(todo, f)
		}
	}
	res := Result{PerFieldErrors: make(map[string][]Issue, len(todo))}
	total := len(todo)
	if total == 0 {
		if progress != nil {
			progress(0, 0)
		}
		return res
	}

	results := make(chan fieldResult, total)
	for _, f := range todo {
		f := f
		task := func(ctx context.Context) { results <- c.checkOne(ctx, f) }
		if c.pool == nil {
			task(ctx)
			continue
		}
		if err := c.pool.Submit(ctx, task); err != nil {
			logger.Debug("Spell-check task not scheduled, checking locally", zap.String("field", f.Field), zap.Error(err))
			results <- c.local(f, false)
		}
	}

	for len(pending) > 0 {
		var r fieldResult
		select {
		case r = <-results:
		case <-ctx.Done():
			// Tasks skipped by the pool never report; settle the next one here.
			for _, f := range todo {
				if pending[f.Field] {
					r = c.local(f, false)
					break
				}
			}
		}
		if !pending[r.field] {
			continue
		}
		delete(pending, r.field)
		res.PerFieldErrors[r.field] = r.issues
		res.FallbackUsed = res.FallbackUsed || r.fallback
		res.RateLimited = res.RateLimited || r.limited
		if progress != nil {
			progress(total-len(pending), total)
		}
	}
	switch {
	case res.RateLimited:
		res.Notice = "맞춤법 검사 요청이 많아 잠시 기본 규칙으로 검사했어요."
	case res.FallbackUsed:
		res.Notice = "맞춤법 검사 서버에 연결하지 못해 기본 규칙으로 검사했어요."
	}
	return res
}

func (c *Checker) checkOne(ctx context.Context, f FieldText) fieldResult {
	if c.endpoint == "" {
		return c.local(f, false)
	}
	if issues, ok := c.cache.Get(f.Text); ok {
		return fieldResult{field: f.Field, issues: issues}
	}
	if c.coolingDown() {
		r := c.local(f, true)
		r.limited = true
		return r
	}
	issues, err := c.remote(ctx, f.Text)
	if err != nil {
		limited := errors.Is(err, ErrRateLimited)
		if limited {
			c.startCooldown()
		}
		logger.Warn("Spell-check backend failed, using local rules",
			zap.String("field", f.Field),
			zap.Bool("rate_limited", limited),
			zap.Error(err),
		)
		r := c.local(f, true)
		r.limited = limited
		return r
	}
	c.cache.Add(f.Text, issues)
	return fieldResult{field: f.Field, issues: issues}
}

func (c *Checker) coolingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.blockedUntil)
}

func (c *Checker) startCooldown() {
	c.mu.Lock()
	c.blockedUntil = c.now().Add(c.cooldown)
	c.mu.Unlock()
}

type remoteResponse struct {
	Errors []struct {
		Token       string   `json:"token"`
		Suggestions []string `json:"suggestions"`
		Info        string   `json:"info"`
	} `json:"errors"`
}

func (c *Checker) remote(ctx context.Context, text string) ([]Issue, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req) // #nosec G107 -- endpoint is operator configuration.
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spell-check status %d", resp.StatusCode)
	}
	var out remoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	issues := make([]Issue, 0, len(out.Errors))
	for _, e := range out.Errors {
		sugg := e.Suggestions
		if sugg == nil {
			sugg = []string{}
		}
		issues = append(issues, Issue{Token: e.Token, Suggestions: sugg, Info: e.Info, Source: "backend"})
	}
	return issues, nil
}

func (c *Checker) local(f FieldText, fallback bool) fieldResult {
	return fieldResult{field: f.Field, issues: LocalCheck(c.engine(), f.Field, f.Text), fallback: fallback}
}
