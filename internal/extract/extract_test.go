package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

func text(id, name, chars string, x, y float64) *domain.Node {
	return &domain.Node{ID: id, Type: domain.NodeText, Name: name, Characters: chars, X: x, Y: y, Height: 20}
}

func frame(id, name string, x, y float64, children ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Type: domain.NodeFrame, Name: name, X: x, Y: y, Children: children}
}

func hide(n *domain.Node) *domain.Node {
	v := false
	n.Visible = &v
	return n
}

func TestExtract_NamedModal(t *testing.T) {
	danger := frame("b2", "buttons", 100, 200, text("rb", "label", "삭제", 110, 210))
	danger.Fill = "#E53935"
	root := frame("root", "Modal", 0, 0,
		frame("tf", "modal_title", 0, 0, text("title", "Title", "삭제하시겠습니까?", 0, 0)),
		frame("body", "text", 0, 50, text("desc", "Body", "삭제 후에는 복구할 수 없어요.", 0, 50)),
		frame("mb", "modal_button", 0, 200,
			frame("b1", "buttons", 0, 200, text("lb", "label", "취소", 10, 210)),
			danger,
		),
	)

	fs := Extract(root)
	require.Equal(t, "삭제하시겠습니까?", fs.Title.Text)
	require.Equal(t, "title", fs.Title.NodeID)
	require.Equal(t, "삭제 후에는 복구할 수 없어요.", fs.Description.Text)
	require.Equal(t, "취소", fs.LeftButton.Label)
	require.False(t, fs.LeftButton.Hidden)
	require.Equal(t, "삭제", fs.RightButton.Label)
	require.Equal(t, "#E53935", fs.RightButton.Fill)
	require.Equal(t, 2, fs.ButtonCount)
	require.Equal(t, domain.ContainerModal, fs.Container)
}

func TestExtract_SingleButtonIsRight(t *testing.T) {
	root := frame("root", "Alert", 0, 0,
		text("t", "title", "안내", 0, 0),
		frame("mb", "modal_button", 0, 100,
			frame("b", "buttons", 0, 100, text("ok", "label", "확인", 0, 100)),
		),
	)
	fs := Extract(root)
	require.True(t, fs.LeftButton.Hidden)
	require.Equal(t, "", fs.LeftButton.Label)
	require.Equal(t, "확인", fs.RightButton.Label)
	require.Equal(t, 1, fs.ButtonCount)
}

func TestExtract_HiddenLeftButtonFrame(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "저장할까요?", 0, 0),
		frame("mb", "Button Container", 0, 100,
			hide(frame("b1", "Button", 0, 100, text("l", "label", "취소", 0, 100))),
			frame("b2", "Button", 100, 100, text("r", "label", "저장", 100, 100)),
		),
	)
	fs := Extract(root)
	require.True(t, fs.LeftButton.Hidden)
	require.Equal(t, "저장", fs.RightButton.Label)
	require.Equal(t, 1, fs.ButtonCount)
}

func TestExtract_FuzzyContainerUnwrapsWrapper(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "변경할까요?", 0, 0),
		frame("wrap", "Button Group", 0, 100,
			frame("inner", "row", 0, 100,
				frame("b1", "Secondary", 0, 100, text("l", "label", "취소", 0, 100)),
				frame("b2", "Primary", 100, 100, text("r", "label", "변경", 100, 100)),
			),
		),
	)
	fs := Extract(root)
	require.Equal(t, "취소", fs.LeftButton.Label)
	require.Equal(t, "변경", fs.RightButton.Label)
}

func TestExtract_FreeStandingButtonsSortedByX(t *testing.T) {
	primary := frame("bp", "Button/Primary", 200, 100, text("r", "label", "확인", 210, 100))
	primary.FillStyleName = "Color/Danger/500"
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "삭제할까요?", 0, 0),
		primary,
		frame("bs", "Button/Secondary", 10, 100, text("l", "label", "취소", 20, 100)),
	)
	fs := Extract(root)
	require.Equal(t, "취소", fs.LeftButton.Label)
	require.Equal(t, "확인", fs.RightButton.Label)
	require.Equal(t, "Color/Danger/500", fs.RightButton.StyleName)
	require.Equal(t, 2, fs.ButtonCount)
}

func TestExtract_PositionFallback(t *testing.T) {
	root := frame("root", "Frame 12", 0, 0,
		text("c", "", "확인", 100, 100),
		text("d", "", "입력하신 내용으로 저장합니다.", 0, 40),
		text("a", "", "저장할까요?", 0, 0),
		text("b", "", "취소", 0, 101),
	)
	fs := Extract(root)
	require.Equal(t, "저장할까요?", fs.Title.Text)
	require.Equal(t, "입력하신 내용으로 저장합니다.", fs.Description.Text)
	require.Equal(t, "취소", fs.LeftButton.Label)
	require.Equal(t, "확인", fs.RightButton.Label)
	require.Equal(t, 2, fs.ButtonCount)
}

func TestExtract_BottomRowSentenceIsNotAButton(t *testing.T) {
	root := frame("root", "Frame", 0, 0,
		text("a", "", "안내", 0, 0),
		text("b", "", "요청하신 작업이 완료되었습니다.", 0, 40),
	)
	fs := Extract(root)
	require.Equal(t, "안내", fs.Title.Text)
	require.Equal(t, "요청하신 작업이 완료되었습니다.", fs.Description.Text)
	require.Equal(t, 0, fs.ButtonCount)
	require.True(t, fs.RightButton.Hidden)
}

func TestExtract_LiteralFallback(t *testing.T) {
	root := frame("root", "Frame", 0, 0,
		text("a", "", "확인이 필요해요", 0, 0),
		text("l", "", "취소", 0, 100),
		text("h", "", "도움말", 50, 100),
		text("r", "", "확인", 100, 100),
	)
	fs := Extract(root)
	require.Equal(t, "취소", fs.LeftButton.Label)
	require.Equal(t, "l", fs.LeftButton.NodeID)
	require.Equal(t, "확인", fs.RightButton.Label)
	require.Equal(t, "r", fs.RightButton.NodeID)
	require.Equal(t, "도움말", fs.Description.Text)
}

func TestExtract_HiddenNodesExcluded(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		hide(text("ht", "title", "숨은 제목", 0, 0)),
		text("v", "heading", "보이는 제목", 0, 10),
		frame("body", "description", 0, 50, hide(text("hd", "", "숨은 본문", 0, 50))),
	)
	fs := Extract(root)
	require.Equal(t, "보이는 제목", fs.Title.Text)
	require.Equal(t, "", fs.Description.Text)
	require.Nil(t, fs.Description.Node)
}

func TestExtractWith_FinderDecidesSearchedNodes(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("title", "title", "안내", 0, 0),
		frame("body", "description", 0, 40, text("d", "line", "설정이 반영돼요.", 0, 40)),
		text("note", "description", "관리자 메모", 0, 80),
		frame("mb", "modal_button", 0, 200, frame("b", "buttons", 0, 200, text("ok", "label", "확인", 0, 210))),
	)

	fs := Extract(root)
	require.Equal(t, "d", fs.Description.NodeID)
	require.Equal(t, fs, ExtractWith(root, nil))

	without := func(id string) Finder {
		return func(r *domain.Node, pred func(*domain.Node) bool) []*domain.Node {
			return walkDescendants(r, func(n *domain.Node) bool {
				return n.ID != id && (pred == nil || pred(n))
			})
		}
	}
	fs = ExtractWith(root, without("d"))
	require.Equal(t, "note", fs.Description.NodeID)
	require.Equal(t, "안내", fs.Title.Text)
	require.Equal(t, "확인", fs.RightButton.Label)

	// A reported node whose layer is not reported has no known parent.
	fs = ExtractWith(root, without("body"))
	require.Equal(t, "note", fs.Description.NodeID)
}

func TestExtract_WhitespaceTitleIsEmptyAndNotReused(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "   ", 0, 0),
		text("d", "", "본문입니다.", 0, 40),
	)
	fs := Extract(root)
	require.Equal(t, "", fs.Title.Text)
	require.Equal(t, "t", fs.Title.NodeID)
	require.False(t, fs.Title.Present())
	require.Equal(t, "본문입니다.", fs.Description.Text)
}

func TestExtract_TitleNeverReusedAsDescription(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "저장할까요?", 0, 100),
		text("d", "", "설명 문구", 0, 0),
	)
	fs := Extract(root)
	require.Equal(t, "t", fs.Title.NodeID)
	require.Equal(t, "d", fs.Description.NodeID)
}

func TestExtract_TitleResolvedBeforeDescriptionInSharedTextFrame(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		frame("body", "text", 0, 0,
			text("q", "", "정말 삭제할까요?", 0, 0),
			text("d", "", "삭제 후에는 복구할 수 없어요.", 0, 40),
		),
		frame("mb", "modal_button", 0, 200,
			frame("b1", "buttons", 0, 200, text("l", "label", "취소", 10, 210)),
			frame("b2", "buttons", 100, 200, text("r", "label", "삭제", 110, 210)),
		),
	)
	fs := Extract(root)
	require.Equal(t, "정말 삭제할까요?", fs.Title.Text)
	require.Equal(t, "q", fs.Title.NodeID)
	require.Equal(t, "삭제 후에는 복구할 수 없어요.", fs.Description.Text)
	require.Equal(t, "d", fs.Description.NodeID)
}

func TestExtract_TitleFallbackSkipsNamedFields(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		frame("idf", "identifier", 0, 0, text("id", "", "정산번호 2024-001", 0, 0)),
		text("w", "", "3행", 0, 10),
		text("q", "", "내역을 삭제할까요?", 0, 20),
		frame("mb", "modal_button", 0, 200,
			frame("b", "buttons", 0, 200, text("r", "label", "삭제", 0, 200)),
		),
	)
	fs := Extract(root)
	require.Equal(t, "q", fs.Title.NodeID)
	require.Equal(t, "정산번호 2024-001", fs.Identifier.Text)
	require.Equal(t, "3행", fs.Where.Text)
}

func TestExtract_LoneBottomLabel(t *testing.T) {
	tests := []struct {
		name      string
		root      *domain.Node
		wantRight string
		wantDesc  string
	}{
		{
			name: "after named description",
			root: frame("root", "Modal", 0, 0,
				text("t", "title", "안내", 0, 0),
				text("d", "description", "요청이 접수되었어요.", 0, 40),
				text("ok", "", "OK", 0, 100),
			),
			wantRight: "OK",
			wantDesc:  "요청이 접수되었어요.",
		},
		{
			name: "below an unnamed body",
			root: frame("root", "Modal", 0, 0,
				text("t", "", "안내", 0, 0),
				text("d", "", "요청이 접수되었어요.", 0, 40),
				text("ok", "", "OK", 0, 100),
			),
			wantRight: "OK",
			wantDesc:  "요청이 접수되었어요.",
		},
		{
			name: "only text left is the description",
			root: frame("root", "Modal", 0, 0,
				text("t", "title", "안내", 0, 0),
				text("d", "", "설명 문구", 0, 40),
			),
			wantRight: "",
			wantDesc:  "설명 문구",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Extract(tt.root)
			require.Equal(t, tt.wantRight, fs.RightButton.Label)
			require.Equal(t, tt.wantDesc, fs.Description.Text)
			require.True(t, fs.LeftButton.Hidden)
		})
	}
}

func TestExtract_IdentifierConditionWhere(t *testing.T) {
	root := frame("root", "Modal", 0, 0,
		text("t", "title", "정산 내역을 삭제할까요?", 0, 0),
		text("w", "", "3행", 0, 20),
		frame("idf", "identifier", 0, 30, text("id", "", "정산번호 2024-001", 0, 30)),
		frame("cond", "Conditions", 0, 60,
			text("c1", "", "· 지급 완료 건은 제외", 0, 60),
			hide(text("c2", "", "· 숨김 조건", 0, 70)),
			text("c3", "", "· 확정 건만 삭제", 0, 80),
		),
	)
	fs := Extract(root)
	require.Equal(t, "정산번호 2024-001", fs.Identifier.Text)
	require.Equal(t, "· 지급 완료 건은 제외\n· 확정 건만 삭제", fs.Condition.Text)
	require.Len(t, fs.Condition.Lines, 2)
	require.Equal(t, "c1", fs.Condition.NodeID)
	require.Equal(t, "3행", fs.Where.Text)
	require.Equal(t, "", fs.Description.Text)
}

func TestExtract_Toast(t *testing.T) {
	root := frame("root", "Toast/Success", 0, 0, text("m", "message", "저장되었습니다.", 0, 0))
	fs := Extract(root)
	require.Equal(t, domain.ContainerToast, fs.Container)
	require.True(t, fs.IsToast())
	require.Equal(t, "저장되었습니다.", fs.Title.Text)
}

func TestExtract_NilAndEmpty(t *testing.T) {
	require.NotPanics(t, func() {
		fs := Extract(nil)
		require.True(t, fs.LeftButton.Hidden)
		require.True(t, fs.RightButton.Hidden)
		require.Equal(t, 0, fs.ButtonCount)
	})

	fs := Extract(frame("root", "Empty", 0, 0))
	require.Equal(t, "", fs.Title.Text)
	require.Equal(t, 0, fs.ButtonCount)

	fs = Extract(hide(frame("root", "Hidden", 0, 0, text("t", "title", "x", 0, 0))))
	require.Equal(t, "", fs.Title.Text)
}

func TestExtract_NormalizesDecomposedHangul(t *testing.T) {
	root := frame("root", "Modal", 0, 0, text("t", "title", norm.NFD.String("삭제"), 0, 0))
	fs := Extract(root)
	require.Equal(t, "삭제", fs.Title.Text)
}

func TestClean(t *testing.T) {
	require.Equal(t, "", Clean(" \n\t "))
	require.Equal(t, "확인", Clean("  확인 "))
}

func TestLooksLikeButtonLabel(t *testing.T) {
	require.True(t, looksLikeButtonLabel("확인"))
	require.False(t, looksLikeButtonLabel("완료되었습니다."))
	require.False(t, looksLikeButtonLabel(""))
	require.False(t, looksLikeButtonLabel("아주 긴 버튼 라벨은 버튼이 아닙니다"))
}
