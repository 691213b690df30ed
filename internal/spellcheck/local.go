package spellcheck

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seola0114/ux-writing-plugin/internal/lint"
)

var (
	doubleSpaceRe  = regexp.MustCompile(` {2,}`)
	repeatedMarkRe = regexp.MustCompile(`\.{2,}|,{2,}|!{2,}|\?{2,}`)
	spaceBeforeRe  = regexp.MustCompile(`\S( +)[.,!?]`)
)

// LocalCheck finds the problems a rule table can see without a dictionary:
// runs of spaces, doubled punctuation, a space before punctuation, and words
// the table asks to replace. Issues are returned in that order.
func LocalCheck(e *lint.Engine, field, text string) []Issue {
	issues := []Issue{}
	for _, m := range doubleSpaceRe.FindAllString(text, -1) {
		issues = append(issues, Issue{Token: m, Suggestions: []string{" "}, Info: "띄어쓰기를 한 칸으로 줄여 주세요.", Source: "local"})
	}
	for _, m := range repeatedMarkRe.FindAllString(text, -1) {
		if m == "..." {
			continue
		}
		issues = append(issues, Issue{Token: m, Suggestions: []string{m[:1]}, Info: "문장 부호를 한 번만 써 주세요.", Source: "local"})
	}
	for _, m := range spaceBeforeRe.FindAllString(text, -1) {
		_, size := utf8.DecodeRuneInString(m)
		token := m[size:]
		issues = append(issues, Issue{Token: token, Suggestions: []string{strings.TrimLeft(token, " ")}, Info: "문장 부호 앞에는 띄어 쓰지 않아요.", Source: "local"})
	}
	if e != nil {
		_, fired := e.ReplaceWords(field, text)
		for _, p := range fired {
			info := p.Note
			if info == "" {
				info = "권장 표현으로 바꿔 주세요."
			}
			issues = append(issues, Issue{Token: p.From, Suggestions: []string{p.To}, Info: info, Source: "rules"})
		}
	}
	return issues
}
