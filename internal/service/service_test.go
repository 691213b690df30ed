package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/spellcheck"
)

func text(id, name, chars string, x, y float64) *domain.Node {
	return &domain.Node{ID: id, Type: domain.NodeText, Name: name, Characters: chars, X: x, Y: y, Height: 20,
		FontFamily: "Pretendard", FontStyle: "Regular"}
}

func frame(id, name string, x, y float64, children ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Type: domain.NodeFrame, Name: name, X: x, Y: y, Children: children}
}

func deleteModal() *domain.Node {
	return frame("root", "Modal", 0, 0,
		text("title", "title", "선택한 정산 내역을 삭제할까요", 0, 0),
		text("desc", "description", "삭제한 내역은 목록에서 사라집니다.", 0, 40),
		frame("cond", "condition", 0, 80,
			text("c1", "line", "· 지급 완료 건은 제외", 0, 80),
			text("c2", "line", "· 확정 건만 삭제", 0, 100),
		),
		frame("mb", "modal_button", 0, 200,
			frame("b1", "buttons", 0, 200, text("left", "label", "닫기", 10, 210)),
			frame("b2", "buttons", 100, 200, text("right", "label", "확인", 110, 210)),
		),
	)
}

func TestService_ScanDeleteModal(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	doc := host.NewMemoryDocument(host.Snapshot{Selection: []*domain.Node{deleteModal()}})

	res, err := svc.Scan(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, domain.KindDelete, res.Kind)
	require.Equal(t, "Destructive Modal", res.KindLabel)
	require.Equal(t, domain.SeverityFail, res.Severity)

	rules := map[string]bool{}
	for _, it := range res.LintItems {
		rules[it.Rule] = true
	}
	require.True(t, rules["title-punctuation"])
	require.True(t, rules["description-irreversible"])
	require.True(t, rules["right-button-destructive-verb"])
	require.True(t, rules["left-button-cancel"])

	require.Equal(t, domain.KindDelete, res.Suggestion.Kind)
	require.Equal(t, "선택한 정산 내역을 삭제할까요", res.Suggestion.Title)
	require.False(t, res.Recommendation.Changed())
}

func TestService_ScanNoSelection(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	doc := host.NewMemoryDocument(host.Snapshot{})

	_, err := svc.Scan(context.Background(), doc)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeNoSelection, appErr.Code)
	require.Equal(t, []string{appErr.Message}, doc.Notices())
}

func TestService_ScanTextLayerRejected(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	doc := host.NewMemoryDocument(host.Snapshot{Selection: []*domain.Node{text("t", "title", "안내", 0, 0)}})

	_, err := svc.Scan(context.Background(), doc)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeNotAContainer, appErr.Code)
}

func TestService_ApplyEmptyTitleKeepsExistingText(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	root := deleteModal()
	doc := host.NewMemoryDocument(host.Snapshot{Selection: []*domain.Node{root}})

	res, err := svc.Apply(context.Background(), doc, map[string]string{
		domain.FieldTitle:       "",
		domain.FieldRightButton: "삭제",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.AppliedCount)
	require.Equal(t, []host.Patch{{NodeID: "right", Characters: "삭제"}}, res.Patches)
	require.Equal(t, "선택한 정산 내역을 삭제할까요", root.Children[0].Characters)
	require.Equal(t, "삭제", domain.FindByID(root, "right").Characters)
}

func TestService_ApplySkipsMissingFont(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	root := deleteModal()
	root.Children[0].FontFamily = "Missing Sans"
	doc := host.NewMemoryDocument(host.Snapshot{
		Selection:    []*domain.Node{root},
		MissingFonts: []string{"Missing Sans__Regular"},
	})

	res, err := svc.Apply(context.Background(), doc, map[string]string{
		domain.FieldTitle:      "선택한 정산 내역을 삭제할까요?",
		domain.FieldLeftButton: "취소",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.AppliedCount)
	require.Equal(t, []string{domain.FieldTitle}, res.Skipped)
	require.Equal(t, "선택한 정산 내역을 삭제할까요", root.Children[0].Characters)
	require.Equal(t, "취소", domain.FindByID(root, "left").Characters)
}

func TestService_ApplySplitsConditionLines(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	root := deleteModal()
	doc := host.NewMemoryDocument(host.Snapshot{Selection: []*domain.Node{root}})

	res, err := svc.Apply(context.Background(), doc, map[string]string{
		domain.FieldCondition: "· 지급 완료 건은 제외돼요\n· 확정 건만 삭제돼요\n· 보류 건은 유지돼요",
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.AppliedCount)
	require.Equal(t, "· 지급 완료 건은 제외돼요", domain.FindByID(root, "c1").Characters)
	require.Equal(t, "· 확정 건만 삭제돼요\n· 보류 건은 유지돼요", domain.FindByID(root, "c2").Characters)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		value string
		n     int
		want  []string
	}{
		{"single node keeps newlines", "a\nb", 1, []string{"a\nb"}},
		{"exact", "a\nb", 2, []string{"a", "b"}},
		{"fewer lines", "a", 3, []string{"a"}},
		{"crlf", "a\r\nb", 2, []string{"a", "b"}},
		{"extra lines joined", "a\nb\nc", 2, []string{"a", "b\nc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, splitLines(tt.value, tt.n))
		})
	}
}

func TestService_AISuggestLocal(t *testing.T) {
	svc := New(nil, nil, nil, nil)

	res := svc.AISuggest(context.Background(), "   ")
	require.False(t, res.OK)
	require.Equal(t, apperrors.CodeEmptyPrompt, res.ErrorCode)

	res = svc.AISuggest(context.Background(), "정산 내역을 영구 삭제하는 상황")
	require.True(t, res.OK)
	require.Equal(t, domain.KindDelete, res.Component)
	require.Equal(t, "local", res.Provider)
}

func TestService_LocalSpellCheckProgress(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	var seen [][2]int
	res := svc.SpellCheck(context.Background(), []spellcheck.FieldText{
		{Field: domain.FieldTitle, Text: "저장할까요  ?"},
		{Field: domain.FieldDescription, Text: ""},
		{Field: domain.FieldRightButton, Text: "확인"},
	}, func(done, total int) { seen = append(seen, [2]int{done, total}) })

	require.Equal(t, [][2]int{{1, 2}, {2, 2}}, seen)
	require.NotEmpty(t, res.PerFieldErrors[domain.FieldTitle])
	require.Empty(t, res.PerFieldErrors[domain.FieldRightButton])
	require.NotContains(t, res.PerFieldErrors, domain.FieldDescription)
}

func TestDispatcher_RoundTrip(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	d := domain.NewDispatcher()
	svc.Register(d)
	require.ElementsMatch(t, []string{MsgScanRequest, MsgApplyRequest, MsgAISuggestRequest, MsgSpellcheckRequest}, d.Types())

	req, err := domain.NewMessage(MsgScanRequest, "r1", ScanRequest{Snapshot: host.Snapshot{Selection: []*domain.Node{deleteModal()}}})
	require.NoError(t, err)
	resp, err := d.Dispatch(context.Background(), req, nil)
	require.NoError(t, err)
	require.Equal(t, MsgScanResult, resp.Type)
	require.Equal(t, "r1", resp.RequestID)

	var scan ScanResult
	require.NoError(t, json.Unmarshal(resp.Payload, &scan))
	require.Equal(t, domain.KindDelete, scan.Kind)
}

func TestDispatcher_ScanEditedFields(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	d := domain.NewDispatcher()
	svc.Register(d)

	req, err := domain.NewMessage(MsgScanRequest, "r2", ScanRequest{Fields: &domain.FieldSetInput{
		Title:       "저장할까요?",
		Description: "변경한 설정이 바로 반영됩니다.",
		LeftButton:  "취소",
		RightButton: "저장",
	}})
	require.NoError(t, err)
	resp, err := d.Dispatch(context.Background(), req, nil)
	require.NoError(t, err)

	var scan ScanResult
	require.NoError(t, json.Unmarshal(resp.Payload, &scan))
	require.Equal(t, domain.KindConfirm, scan.Kind)
	require.Empty(t, scan.LintItems)
}

func TestDispatcher_SpellcheckEmitsProgress(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	d := domain.NewDispatcher()
	svc.Register(d)

	req, err := domain.NewMessage(MsgSpellcheckRequest, "r3", SpellcheckRequest{
		Snapshot: host.Snapshot{Selection: []*domain.Node{deleteModal()}},
	})
	require.NoError(t, err)

	var progress []SpellProgress
	resp, err := d.Dispatch(context.Background(), req, func(m domain.Message) error {
		require.Equal(t, MsgSpellProgress, m.Type)
		require.Equal(t, "r3", m.RequestID)
		var p SpellProgress
		require.NoError(t, json.Unmarshal(m.Payload, &p))
		progress = append(progress, p)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, MsgSpellcheckResult, resp.Type)
	require.Len(t, progress, 5)
	require.Equal(t, SpellProgress{Completed: 5, Total: 5}, progress[4])
}

func TestService_WatchRescansOnSelectionChange(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	doc := host.NewMemoryDocument(host.Snapshot{})

	var got []domain.Message
	stop := svc.Watch(context.Background(), doc, func(m domain.Message) error {
		got = append(got, m)
		return nil
	})

	doc.SetSelection([]*domain.Node{deleteModal()})
	require.Len(t, got, 1)
	require.Equal(t, MsgScanResult, got[0].Type)
	var scan ScanResult
	require.NoError(t, json.Unmarshal(got[0].Payload, &scan))
	require.Equal(t, domain.KindDelete, scan.Kind)

	doc.SetSelection([]*domain.Node{text("t", "label", "확인", 0, 0)})
	require.Len(t, got, 2)
	require.Equal(t, MsgError, got[1].Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(got[1].Payload, &payload))
	require.Equal(t, apperrors.CodeNotAContainer, payload.Code)

	doc.SetSelection(nil)
	require.Len(t, got, 2)

	stop()
	doc.SetSelection([]*domain.Node{deleteModal()})
	require.Len(t, got, 2)
}

func TestService_ScanUsesDocumentSearch(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	doc := &filteringDocument{
		MemoryDocument: host.NewMemoryDocument(host.Snapshot{Selection: []*domain.Node{deleteModal()}}),
		skip:           "desc",
	}

	res, err := svc.Scan(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, "선택한 정산 내역을 삭제할까요", res.FieldSet.Title.Text)
	require.Empty(t, res.FieldSet.Description.Text)
}

// filteringDocument hides one node from descendant searches.
type filteringDocument struct {
	*host.MemoryDocument
	skip string
}

func (d *filteringDocument) FindDescendants(root *domain.Node, pred func(*domain.Node) bool) []*domain.Node {
	return d.MemoryDocument.FindDescendants(root, func(n *domain.Node) bool {
		return n.ID != d.skip && (pred == nil || pred(n))
	})
}

func TestDispatcher_BadPayload(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	d := domain.NewDispatcher()
	svc.Register(d)

	_, err := d.Dispatch(context.Background(), domain.Message{Type: MsgApplyRequest, Payload: json.RawMessage(`[1,2]`)}, nil)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeInvalidRequest, appErr.Code)

	msg := ErrorMessage("r4", err)
	require.Equal(t, MsgError, msg.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Equal(t, apperrors.CodeInvalidRequest, payload.Code)
}
