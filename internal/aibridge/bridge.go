package aibridge

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// Provider names accepted by Options.Provider.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// DefaultTimeout bounds one backend call when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Defaults for fields a backend left empty.
const (
	defaultTitle       = "확인이 필요한 모달입니다."
	defaultDescription = "입력하신 상황을 기준으로 확인이 필요합니다."
	defaultLeft        = "취소"
	defaultRight       = "확인"
)

// Options configures the backend behind a Bridge.
type Options struct {
	Provider string
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Result is the ai-suggest-result payload.
type Result struct {
	OK           bool        `json:"ok"`
	Component    domain.Kind `json:"component"`
	Suggestion   Copy        `json:"suggestion"`
	Reasons      []string    `json:"reasons"`
	Error        string      `json:"error,omitempty"`
	ErrorCode    string      `json:"errorCode,omitempty"`
	FallbackUsed bool        `json:"fallbackUsed"`
	Provider     string      `json:"provider"`
	Notice       string      `json:"notice,omitempty"`
}

// Bridge sends free-text prompts to a Backend with a fixed timeout and
// degrades to the LocalBackend on any failure.
type Bridge struct {
	backend  Backend
	local    *LocalBackend
	timeout  time.Duration
	sanitize *bluemonday.Policy
}

// NewBridge returns a Bridge. A nil backend means local only.
func NewBridge(backend Backend, local *LocalBackend, timeout time.Duration) *Bridge {
	if local == nil {
		local = NewLocalBackend(nil)
	}
	if backend == nil {
		backend = local
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{backend: backend, local: local, timeout: timeout, sanitize: bluemonday.StrictPolicy()}
}

// NewBackend builds the configured backend.
func NewBackend(ctx context.Context, opts Options, local *LocalBackend) (Backend, error) {
	if local == nil {
		local = NewLocalBackend(nil)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch strings.ToLower(opts.Provider) {
	case "", ProviderLocal:
		return local, nil
	case ProviderHTTP:
		if opts.Endpoint == "" {
			return nil, fmt.Errorf("ai.endpoint is required for provider %q", ProviderHTTP)
		}
		return NewHTTPBackend(opts.Endpoint, timeout), nil
	case ProviderOpenAI:
		return NewModelBackend(NewOpenAIModel(opts.APIKey, opts.Endpoint, opts.Model)), nil
	case ProviderGemini:
		m, err := NewGeminiModel(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return NewModelBackend(m), nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", opts.Provider)
}

// Backend returns the primary backend.
func (b *Bridge) Backend() Backend { return b.backend }

// Suggest answers a free-text prompt. An empty prompt returns an immediate
// message without calling any backend.
func (b *Bridge) Suggest(ctx context.Context, prompt string) Result {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		e := apperrors.ErrEmptyPrompt()
		return Result{
			Component: domain.KindConfirm,
			Suggestion: Copy{
				Title:       "입력 문장이 없습니다.",
				Description: e.Message,
				Left:        defaultLeft,
				Right:       defaultRight,
			},
			Reasons:   []string{"빈 입력"},
			Error:     e.Message,
			ErrorCode: e.Code,
			Provider:  b.backend.Name(),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	req := BackendRequest{Text: prompt, Prompt: prompt}
	resp, err := b.backend.Suggest(callCtx, req)
	if err != nil {
		logger.Warn("AI backend failed, using local rules",
			zap.String("provider", b.backend.Name()),
			zap.Error(err),
		)
		return b.fallback(ctx, req, err)
	}

	res := b.normalize(resp)
	res.OK = true
	res.Provider = b.backend.Name()
	return res
}

func (b *Bridge) fallback(ctx context.Context, req BackendRequest, cause error) Result {
	resp, _ := b.local.Suggest(ctx, req)
	res := b.normalize(resp)
	res.FallbackUsed = true
	res.Provider = b.local.Name()
	res.Error = cause.Error()
	res.ErrorCode = apperrors.CodeAIBackendFailed
	res.Notice = "AI 호출에 실패해 기본 규칙으로 제안했어요."
	res.Reasons = append(res.Reasons, "오류: "+cause.Error())
	return res
}

// normalize flattens the response, sanitizes every string, fills defaults
// and turns toast answers into confirm: a free-form situation is always
// rendered as a modal.
func (b *Bridge) normalize(resp *BackendResponse) Result {
	c, reasons := resp.Flatten()
	c.Title = b.clean(c.Title, defaultTitle)
	c.Description = b.clean(c.Description, defaultDescription)
	c.Where = b.clean(c.Where, "")
	c.Left = b.clean(c.Left, defaultLeft)
	c.Right = b.clean(c.Right, defaultRight)
	for i, r := range reasons {
		reasons[i] = b.clean(r, "")
	}
	if reasons == nil {
		reasons = []string{}
	}

	kind, ok := domain.ParseKind(resp.Kind())
	if !ok || kind.IsToast() {
		kind = domain.KindConfirm
	}
	if kind == domain.KindAlert {
		c.Left = ""
	}
	return Result{Component: kind, Suggestion: c, Reasons: reasons}
}

func (b *Bridge) clean(s, def string) string {
	s = strings.TrimSpace(html.UnescapeString(b.sanitize.Sanitize(s)))
	if s == "" {
		return def
	}
	return s
}
