// Package service orchestrates the operator tasks: scan, apply, AI suggest
// and spell-check. Each task snapshots the selected root at its start and
// runs against that snapshot to completion.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/aibridge"
	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/extract"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/rules"
	"github.com/seola0114/ux-writing-plugin/internal/spellcheck"
	"github.com/seola0114/ux-writing-plugin/internal/suggest"
)

// Service runs the lint pipeline and the backend-assisted tasks.
type Service struct {
	rules      *rules.Store
	classifier *classify.Classifier
	bridge     *aibridge.Bridge
	checker    *spellcheck.Checker
}

// New creates a Service. A nil bridge answers every prompt from the local
// templates; a nil checker runs the local spell rules only.
func New(store *rules.Store, classifier *classify.Classifier, bridge *aibridge.Bridge, checker *spellcheck.Checker) *Service {
	if store == nil {
		store = rules.NewStaticStore(rules.Empty())
	}
	if classifier == nil {
		classifier = classify.New(classify.Options{})
	}
	s := &Service{rules: store, classifier: classifier, checker: checker}
	if bridge == nil {
		bridge = aibridge.NewBridge(nil, aibridge.NewLocalBackend(s.Engine), aibridge.DefaultTimeout)
	}
	s.bridge = bridge
	if s.checker == nil {
		// Local rules only; default options cannot fail.
		s.checker, _ = spellcheck.New(spellcheck.Options{}, nil, s.Engine)
	}
	return s
}

// Rules returns the rule store.
func (s *Service) Rules() *rules.Store { return s.rules }

// Engine returns a lint engine over the current rule table. A table that
// fails to load degrades to the empty table so linting keeps working.
func (s *Service) Engine() *lint.Engine {
	return lint.New(s.rules.Table()).WithClassifier(s.classifier)
}

// ScanResult is the scan-result payload.
type ScanResult struct {
	FieldSet       domain.FieldSet        `json:"fieldSet"`
	Kind           domain.Kind            `json:"kind"`
	KindLabel      string                 `json:"kindLabel"`
	Severity       domain.Severity        `json:"severity"`
	LintItems      []domain.LintItem      `json:"lintItems"`
	Suggestion     suggest.Suggestion     `json:"suggestion"`
	Recommendation suggest.Recommendation `json:"recommendation"`
}

// Analyze classifies and lints an extracted field set.
func (s *Service) Analyze(fs domain.FieldSet) *ScanResult {
	e := s.Engine()
	kind := s.classifier.Classify(fs)
	items := e.Lint(fs, kind)
	return &ScanResult{
		FieldSet:       fs,
		Kind:           kind,
		KindLabel:      kind.Label(),
		Severity:       domain.Worst(items),
		LintItems:      items,
		Suggestion:     suggest.Build(kind, fs, e),
		Recommendation: suggest.Recommend(kind, fs, e),
	}
}

// Scan extracts the first selected root of doc and analyzes it.
func (s *Service) Scan(ctx context.Context, doc host.Document) (*ScanResult, error) {
	root, err := selectedRoot(doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := s.Analyze(extract.ExtractWith(root, doc.FindDescendants))
	logger.Debug("Scan finished",
		zap.String("root", root.ID),
		zap.String("kind", string(res.Kind)),
		zap.Int("lint_items", len(res.LintItems)),
	)
	return res, nil
}

// selectedRoot snapshots the first selected node and notifies the operator
// when the selection cannot be scanned.
func selectedRoot(doc host.Document) (*domain.Node, error) {
	sel := doc.CurrentSelection()
	if len(sel) == 0 || sel[0] == nil {
		appErr := apperrors.ErrNoSelection()
		doc.Notify(appErr.Message)
		return nil, appErr
	}
	root := sel[0]
	if !root.IsContainer() {
		appErr := apperrors.ErrNotAContainer(string(root.Type))
		doc.Notify(appErr.Message)
		return nil, appErr
	}
	return root, nil
}

// ApplyResult is the apply-result payload.
type ApplyResult struct {
	AppliedCount int          `json:"appliedCount"`
	Patches      []host.Patch `json:"patches"`
	Skipped      []string     `json:"skipped"`
}

// Apply writes fields (field name to new text) into the selected root.
// Empty values never overwrite existing text. A node whose font cannot be
// prepared, or whose text cannot be set, is skipped and the rest continue.
func (s *Service) Apply(ctx context.Context, doc host.Document, fields map[string]string) (*ApplyResult, error) {
	root, err := selectedRoot(doc)
	if err != nil {
		return nil, err
	}

	fs := extract.ExtractWith(root, doc.FindDescendants)
	res := &ApplyResult{Patches: []host.Patch{}, Skipped: []string{}}
	for _, field := range domain.TextFields {
		value, ok := fields[field]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		nodes := fs.Nodes(field)
		if len(nodes) == 0 {
			res.Skipped = append(res.Skipped, field)
			continue
		}
		for i, text := range splitLines(value, len(nodes)) {
			if text == "" {
				continue
			}
			n := nodes[i]
			if n.Characters == text {
				continue
			}
			if err := s.setText(ctx, doc, n, text); err != nil {
				logger.Warn("Text mutation skipped",
					zap.String("field", field),
					zap.String("node", n.ID),
					zap.Error(err),
				)
				res.Skipped = append(res.Skipped, field)
				continue
			}
			res.AppliedCount++
			res.Patches = append(res.Patches, host.Patch{NodeID: n.ID, Characters: text})
		}
	}

	doc.Notify(fmt.Sprintf("%d개 텍스트를 적용했어요.", res.AppliedCount))
	logger.Debug("Apply finished",
		zap.String("root", root.ID),
		zap.Int("applied", res.AppliedCount),
		zap.Strings("skipped", res.Skipped),
	)
	return res, nil
}

func (s *Service) setText(ctx context.Context, doc host.Document, n *domain.Node, text string) error {
	if err := doc.LoadTextResources(ctx, n); err != nil {
		return fmt.Errorf("load text resources: %w", err)
	}
	if err := doc.SetText(n, text); err != nil {
		return fmt.Errorf("set text: %w", err)
	}
	return nil
}

// splitLines distributes value over n nodes, one line each. Extra lines are
// joined into the last node. A single node receives the whole value.
func splitLines(value string, n int) []string {
	if n <= 1 {
		return []string{value}
	}
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	if len(lines) > n {
		tail := strings.Join(lines[n-1:], "\n")
		lines = append(lines[:n-1], tail)
	}
	return lines
}

// AISuggest asks the AI bridge for copy for a free-text situation.
func (s *Service) AISuggest(ctx context.Context, prompt string) aibridge.Result {
	res := s.bridge.Suggest(ctx, prompt)
	logger.Debug("AI suggest finished",
		zap.String("provider", res.Provider),
		zap.Bool("ok", res.OK),
		zap.Bool("fallback", res.FallbackUsed),
	)
	return res
}

// SpellCheck checks fields and reports progress after each one.
func (s *Service) SpellCheck(ctx context.Context, fields []spellcheck.FieldText, progress spellcheck.ProgressFunc) spellcheck.Result {
	return s.checker.Check(ctx, fields, progress)
}

// SpellFields lists the non-empty text fields of fs in display order.
func SpellFields(fs domain.FieldSet) []spellcheck.FieldText {
	var out []spellcheck.FieldText
	for _, field := range domain.TextFields {
		if t := fs.Text(field); strings.TrimSpace(t) != "" {
			out = append(out, spellcheck.FieldText{Field: field, Text: t})
		}
	}
	return out
}
