package aibridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ChatModel returns the raw text a language model produces for a system and
// user prompt.
type ChatModel interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// SystemPrompt carries the writing rules given to language models.
const SystemPrompt = `너는 업무용 관리 화면의 UX Writing 어시스턴트야.
규칙:
- 문장형은 마침표로 끝나야 함. 단, 의문형(…?) 또는 목록/명사 나열은 마침표 예외.
- 버튼 1개면 '확인'만 가능. 버튼 2개면 Left=취소, Right=확정 또는 삭제.
- 성공/완료/저장 등은 toast-success, 단순 안내/가벼운 실패는 toast-caution.
- 실패/정책/중요 확인 필요 시 confirm, 삭제/파괴적 작업은 delete.
- 삭제 모달 설명에는 되돌릴 수 없다는 안내를 넣음.
- 해요체를 쓰고 한자어 대신 쉬운 말을 씀.
- 오타/맞춤법도 교정.
반환 형식(JSON만):
{
 "suggestions":[{"role":"title|where|description|left|right","suggested":"문자열","reasons":["사유1","사유2"]}],
 "component":{"type":"confirm|delete|alert|toast-success|toast-caution"}
}
문자열 외 다른 설명은 쓰지 말고 JSON만 반환해.`

var roleLabels = map[string]string{
	"title":       "타이틀",
	"where":       "행 위치",
	"description": "설명",
	"left":        "왼쪽 버튼",
	"right":       "오른쪽 버튼",
}

// ModelBackend implements the backend contract on top of a ChatModel.
type ModelBackend struct {
	model ChatModel
}

// NewModelBackend wraps m.
func NewModelBackend(m ChatModel) *ModelBackend {
	return &ModelBackend{model: m}
}

func (b *ModelBackend) Name() string { return b.model.Name() }

func (b *ModelBackend) Suggest(ctx context.Context, r BackendRequest) (*BackendResponse, error) {
	user := UserPrompt(r)
	if user == "" {
		return nil, fmt.Errorf("empty request")
	}
	out, err := b.model.Complete(ctx, SystemPrompt, user)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out) == "" {
		return nil, ErrEmptyCompletion
	}
	return ParseResponse([]byte(out))
}

// UserPrompt renders a request as "label: text" lines, or the free text.
func UserPrompt(r BackendRequest) string {
	if len(r.Texts) == 0 {
		return r.Input()
	}
	lines := make([]string, 0, len(r.Texts))
	for _, t := range r.Texts {
		label, ok := roleLabels[t.Role]
		if !ok {
			label = t.Role
		}
		lines = append(lines, label+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

// LintAI answers a lint request with backend, serving the backend contract
// itself. An unparsable answer becomes an empty caution payload; transport
// and provider errors are returned.
func LintAI(ctx context.Context, backend Backend, r BackendRequest) (*BackendResponse, error) {
	resp, err := backend.Suggest(ctx, r)
	switch {
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrEmptyCompletion):
		return &BackendResponse{
			Suggestions: []RoleSuggestion{},
			Component:   &Component{Type: "toast-caution"},
		}, nil
	case err != nil:
		return nil, err
	}
	return resp, nil
}
