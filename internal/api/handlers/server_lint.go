package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/aibridge"
	"github.com/seola0114/ux-writing-plugin/internal/extract"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/service"
)

// PostScan handles POST /scan.
func (s *Server) PostScan(c *gin.Context) {
	var req service.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}
	if req.Fields != nil {
		c.JSON(http.StatusOK, s.svc.Analyze(req.Fields.FieldSet()))
		return
	}

	res, err := s.svc.Scan(c.Request.Context(), host.NewMemoryDocument(req.Snapshot))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PostApply handles POST /apply.
func (s *Server) PostApply(c *gin.Context) {
	var req service.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}

	res, err := s.svc.Apply(c.Request.Context(), host.NewMemoryDocument(req.Snapshot), req.Fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PostAISuggest handles POST /ai-suggest. Backend failures come back as a
// fallback payload with status 200.
func (s *Server) PostAISuggest(c *gin.Context) {
	var req service.AISuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}
	c.JSON(http.StatusOK, s.svc.AISuggest(c.Request.Context(), req.FreeTextPrompt))
}

// PostSpellcheck handles POST /spellcheck.
func (s *Server) PostSpellcheck(c *gin.Context) {
	var req service.SpellcheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}

	fields := req.Fields
	if len(fields) == 0 {
		doc := host.NewMemoryDocument(req.Snapshot)
		sel := doc.CurrentSelection()
		switch {
		case len(sel) == 0 || sel[0] == nil:
			_ = c.Error(apperrors.ErrNoSelection())
			return
		case !sel[0].IsContainer():
			_ = c.Error(apperrors.ErrNotAContainer(string(sel[0].Type)))
			return
		}
		fields = service.SpellFields(extract.ExtractWith(sel[0], doc.FindDescendants))
	}
	c.JSON(http.StatusOK, s.svc.SpellCheck(c.Request.Context(), fields, nil))
}

// PostLintAI handles POST /lint-ai, serving the AI backend contract so the
// bridge of another instance can point here.
func (s *Server) PostLintAI(c *gin.Context) {
	var req aibridge.BackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}
	if req.Input() == "" && len(req.Texts) == 0 {
		_ = c.Error(apperrors.ErrEmptyPrompt())
		return
	}

	resp, err := aibridge.LintAI(c.Request.Context(), s.lintAI, req)
	if err != nil {
		logger.Warn("lint-ai backend failed",
			zap.String("provider", s.lintAI.Name()),
			zap.Error(err),
		)
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeAIBackendFailed, "AI 응답을 받지 못했어요.", http.StatusBadGateway))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PostRulesReload handles POST /rules/reload.
func (s *Server) PostRulesReload(c *gin.Context) {
	table, err := s.svc.Rules().Reload()
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeRuleTableUnavailable, "규칙 파일을 읽지 못했어요.", http.StatusServiceUnavailable))
		return
	}
	logger.Info("Rule table reloaded", zap.Any("stats", table.Stats()))
	c.JSON(http.StatusOK, table.Stats())
}
