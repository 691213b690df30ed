package aibridge

import (
	"context"

	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
	"github.com/seola0114/ux-writing-plugin/internal/suggest"
)

// LocalBackend answers with the kind templates and the rule table. It never
// fails and is the fallback of every other backend.
type LocalBackend struct {
	engine func() *lint.Engine
}

// NewLocalBackend returns a LocalBackend reading the current engine on each call.
func NewLocalBackend(engine func() *lint.Engine) *LocalBackend {
	if engine == nil {
		engine = func() *lint.Engine { return lint.New(nil) }
	}
	return &LocalBackend{engine: engine}
}

func (l *LocalBackend) Name() string { return "local" }

// Suggest treats the prompt as the description of a two-button modal:
// destructive wording makes it a delete modal, anything else a confirm modal.
func (l *LocalBackend) Suggest(_ context.Context, r BackendRequest) (*BackendResponse, error) {
	text := r.Input()
	for _, t := range r.Texts {
		if t.Role == "description" && text == "" {
			text = t.Text
		}
	}
	kind := domain.KindConfirm
	reason := "로컬 규칙: 확인이 필요한 상황으로 보고 확인 모달을 제안했어요."
	if classify.HasDestructiveKeyword(text) {
		kind = domain.KindDelete
		reason = "로컬 규칙: 삭제 관련 표현이 있어 삭제 모달을 제안했어요."
	}
	s := suggest.Build(kind, domain.FieldSetInput{Description: text}.FieldSet(), l.engine())
	return &BackendResponse{
		Component:   &Component{Type: string(kind)},
		Title:       s.Title,
		Description: s.Description,
		Left:        s.LeftButton,
		Right:       s.RightButton,
		Reasons:     []string{reason},
	}, nil
}
