package suggest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
)

// A sentence ends at a run of terminal marks, or at a polite final ending
// followed by whitespace when the writer left the period out.
var sentenceEndRe = regexp.MustCompile(`[.!?。？！]+|(?:니다|어요|아요|해요|세요|까요|네요)(?:\s|$)`)

// Action phrases are compared with all spaces removed.
var actionPhrases = []string{
	"확인해주세요", "입력해주세요", "선택해주세요", "다시시도", "변경하시겠", "변경할까요",
	"하시겠습니까", "하시겠어요", "진행할까요", "pleaseconfirm", "pleaseenter", "tryagain",
}

// Reason codes reported with a recommendation.
const (
	ReasonSentences   = "sentence-count"
	ReasonLength      = "length"
	ReasonAction      = "action-phrase"
	ReasonDestructive = "destructive"
)

// Reason explains one recommendation trigger.
type Reason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Recommendation is the outcome of Recommend. Recommended equals Current
// when nothing triggered.
type Recommendation struct {
	Current     domain.Kind `json:"current"`
	Recommended domain.Kind `json:"recommendedKind"`
	Reasons     []Reason    `json:"reasons"`
	Suggestion  Suggestion  `json:"suggestion"`
}

// Changed reports whether a different kind is recommended.
func (r Recommendation) Changed() bool { return r.Current != r.Recommended }

// CountSentences counts sentence-ending units in s.
func CountSentences(s string) int {
	return len(sentenceEndRe.FindAllStringIndex(strings.TrimSpace(s), -1))
}

// Recommend checks whether fs would read better as another kind. Toast copy
// that is long, multi-sentence or asks for an action belongs in a confirm
// modal; confirm and alert copy with destructive vocabulary belongs in a
// delete modal. Each category reports at most one reason and categories stack.
func Recommend(kind domain.Kind, fs domain.FieldSet, e *lint.Engine) Recommendation {
	if e == nil {
		e = lint.New(nil)
	}
	style := e.Table().Style
	rec := Recommendation{Current: kind, Recommended: kind, Reasons: []Reason{}}

	switch {
	case kind.IsToast():
		text := joinNonEmpty(fs.Title.Text, fs.Description.Text)
		if n := CountSentences(text); n > style.ToastMaxSentences {
			rec.Reasons = append(rec.Reasons, Reason{
				Code:    ReasonSentences,
				Message: fmt.Sprintf("문장이 %d개예요. 토스트는 %d문장 이내로 쓰고, 긴 안내는 확인 모달을 사용해 주세요.", n, style.ToastMaxSentences),
			})
		}
		if n := utf8.RuneCountInString(text); n > style.ToastMaxLength {
			rec.Reasons = append(rec.Reasons, Reason{
				Code:    ReasonLength,
				Message: fmt.Sprintf("%d자로 길어요. 토스트는 %d자 이내로 써 주세요.", n, style.ToastMaxLength),
			})
		}
		if p, ok := actionPhrase(text); ok {
			rec.Reasons = append(rec.Reasons, Reason{
				Code:    ReasonAction,
				Message: fmt.Sprintf("사용자 행동을 요청하는 표현(%s)이 있어요. 확인 모달을 사용해 주세요.", p),
			})
		}
		if len(rec.Reasons) > 0 {
			rec.Recommended = domain.KindConfirm
		}
	case kind == domain.KindConfirm || kind == domain.KindAlert:
		if classify.HasDestructiveKeyword(fs.Title.Text, fs.Description.Text, fs.Text(domain.FieldRightButton)) {
			rec.Reasons = append(rec.Reasons, Reason{
				Code:    ReasonDestructive,
				Message: "삭제처럼 되돌릴 수 없는 동작이 있어요. 삭제 모달을 사용해 주세요.",
			})
			rec.Recommended = domain.KindDelete
		}
	}

	rec.Suggestion = Build(rec.Recommended, fs, e)
	return rec
}

func actionPhrase(text string) (string, bool) {
	compact := strings.ToLower(strings.Join(strings.Fields(text), ""))
	for _, p := range actionPhrases {
		if strings.Contains(compact, p) {
			return p, true
		}
	}
	return "", false
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
