package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

// Layer-name aliases, lower case. "contains" lists match as substrings,
// "exact" lists match the whole trimmed name.
var (
	titleContains       = []string{"title", "타이틀", "제목"}
	identifierContains  = []string{"identifier", "식별자"}
	conditionContains   = []string{"condition", "조건"}
	descriptionContains = []string{"description", "설명"}
	descriptionExact    = []string{"text", "desc", "body", "contents", "본문"}
	buttonExact         = []string{"modal_button", "button container", "buttons container"}
	buttonContains      = []string{"button", "btn", "버튼"}
	toastContains       = []string{"toast", "토스트", "snackbar", "스낵바"}
)

// Literal labels used by the last-resort button search.
const (
	confirmLiteral = "확인"
	cancelLiteral  = "취소"
)

// maxButtonRunes bounds a label the position heuristic will accept as a button.
const maxButtonRunes = 12

func nameContains(n *domain.Node, aliases []string) bool {
	if n == nil {
		return false
	}
	name := n.LowerName()
	if name == "" {
		return false
	}
	for _, a := range aliases {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}

func nameIs(n *domain.Node, aliases []string) bool {
	if n == nil {
		return false
	}
	name := n.LowerName()
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

// Clean normalizes node text: NFC (Korean from some hosts arrives decomposed)
// and trimmed. Whitespace-only text becomes "".
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

func textOf(n *domain.Node) string {
	if n == nil {
		return ""
	}
	return Clean(n.Characters)
}

// looksLikeButtonLabel rejects sentences: buttons are short and carry no
// sentence-final punctuation.
func looksLikeButtonLabel(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > maxButtonRunes {
		return false
	}
	return !strings.ContainsAny(s[len(s)-1:], ".?!")
}
