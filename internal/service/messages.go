package service

import (
	"context"
	"encoding/json"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/extract"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/spellcheck"
)

// Operator-panel message types.
const (
	MsgScanRequest       = "scan-request"
	MsgScanResult        = "scan-result"
	MsgApplyRequest      = "apply-request"
	MsgApplyResult       = "apply-result"
	MsgAISuggestRequest  = "ai-suggest-request"
	MsgAISuggestResult   = "ai-suggest-result"
	MsgSpellcheckRequest = "spellcheck-request"
	MsgSpellcheckResult  = "spellcheck-result"
	MsgSpellProgress     = "spellcheck-progress"
	MsgSelectionChanged  = "selection-changed"
	MsgError             = "error"
)

// ScanRequest carries either a document snapshot or panel-edited values.
type ScanRequest struct {
	host.Snapshot
	Fields *domain.FieldSetInput `json:"fields,omitempty"`
}

// ApplyRequest carries the snapshot to mutate and the field texts to write.
type ApplyRequest struct {
	host.Snapshot
	Fields map[string]string `json:"fields"`
}

// AISuggestRequest is the free-text situation typed by the operator.
type AISuggestRequest struct {
	FreeTextPrompt string `json:"freeTextPrompt"`
}

// SpellcheckRequest lists the fields to check. When Fields is empty the
// fields are extracted from the snapshot selection.
type SpellcheckRequest struct {
	host.Snapshot
	Fields []spellcheck.FieldText `json:"fields"`
}

// SpellProgress is the spellcheck-progress payload.
type SpellProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// ErrorPayload is the payload of an error message.
type ErrorPayload struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Register installs one independent handler per request type on d.
func (s *Service) Register(d *domain.Dispatcher) {
	d.Register(MsgScanRequest, s.handleScan)
	d.Register(MsgApplyRequest, s.handleApply)
	d.Register(MsgAISuggestRequest, s.handleAISuggest)
	d.Register(MsgSpellcheckRequest, s.handleSpellcheck)
}

// Watch rescans doc each time its selection changes and emits the result as
// an unsolicited scan-result, or an error message when the new selection
// cannot be scanned. An emptied selection emits nothing. The returned
// function stops watching.
func (s *Service) Watch(ctx context.Context, doc host.Document, emit domain.Emitter) (cancel func()) {
	return doc.OnSelectionChanged(func(sel []*domain.Node) {
		if ctx.Err() != nil || len(sel) == 0 {
			return
		}
		res, err := s.Scan(ctx, doc)
		if err != nil {
			_ = emit(ErrorMessage("", err))
			return
		}
		msg, err := domain.NewMessage(MsgScanResult, "", res)
		if err != nil {
			_ = emit(ErrorMessage("", err))
			return
		}
		_ = emit(msg)
	})
}

// ErrorMessage converts a task error into an error message for the panel.
func ErrorMessage(requestID string, err error) domain.Message {
	payload := ErrorPayload{Code: "INTERNAL_ERROR", Message: err.Error()}
	if appErr, ok := apperrors.IsAppError(err); ok {
		payload = ErrorPayload{Code: appErr.Code, Message: appErr.Message, Params: appErr.Params}
	}
	msg, mErr := domain.NewMessage(MsgError, requestID, payload)
	if mErr != nil {
		return domain.Message{Type: MsgError, RequestID: requestID}
	}
	return msg
}

func decode(msg domain.Message, v any) error {
	if len(msg.Payload) == 0 || string(msg.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return apperrors.ErrInvalidRequest("payload", err)
	}
	return nil
}

func (s *Service) handleScan(ctx context.Context, msg domain.Message, _ domain.Emitter) (domain.Message, error) {
	var req ScanRequest
	if err := decode(msg, &req); err != nil {
		return domain.Message{}, err
	}
	if req.Fields != nil {
		return domain.NewMessage(MsgScanResult, msg.RequestID, s.Analyze(req.Fields.FieldSet()))
	}
	res, err := s.Scan(ctx, host.NewMemoryDocument(req.Snapshot))
	if err != nil {
		return domain.Message{}, err
	}
	return domain.NewMessage(MsgScanResult, msg.RequestID, res)
}

func (s *Service) handleApply(ctx context.Context, msg domain.Message, _ domain.Emitter) (domain.Message, error) {
	var req ApplyRequest
	if err := decode(msg, &req); err != nil {
		return domain.Message{}, err
	}
	res, err := s.Apply(ctx, host.NewMemoryDocument(req.Snapshot), req.Fields)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.NewMessage(MsgApplyResult, msg.RequestID, res)
}

func (s *Service) handleAISuggest(ctx context.Context, msg domain.Message, _ domain.Emitter) (domain.Message, error) {
	var req AISuggestRequest
	if err := decode(msg, &req); err != nil {
		return domain.Message{}, err
	}
	return domain.NewMessage(MsgAISuggestResult, msg.RequestID, s.AISuggest(ctx, req.FreeTextPrompt))
}

func (s *Service) handleSpellcheck(ctx context.Context, msg domain.Message, emit domain.Emitter) (domain.Message, error) {
	var req SpellcheckRequest
	if err := decode(msg, &req); err != nil {
		return domain.Message{}, err
	}
	fields := req.Fields
	if len(fields) == 0 {
		doc := host.NewMemoryDocument(req.Snapshot)
		root, err := selectedRoot(doc)
		if err != nil {
			return domain.Message{}, err
		}
		fields = SpellFields(extract.ExtractWith(root, doc.FindDescendants))
	}

	progress := func(done, total int) {
		p, err := domain.NewMessage(MsgSpellProgress, msg.RequestID, SpellProgress{Completed: done, Total: total})
		if err == nil {
			_ = emit(p)
		}
	}
	return domain.NewMessage(MsgSpellcheckResult, msg.RequestID, s.SpellCheck(ctx, fields, progress))
}
