// Package lint applies the UX writing rule table to an extracted FieldSet.
//
// Lint is deterministic for a fixed rule table: structural rules run first in
// a fixed order (title punctuation, description punctuation, description
// irreversibility, right button verb and style, left button cancel, alert
// extra button, button count, button length), followed by the Hanja check,
// the term-mapping pass and the word-replacement pass.
package lint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/rules"
)

// Rule identifiers reported in LintItem.Rule.
const (
	RuleTitlePunctuation       = "title-punctuation"
	RuleDescriptionPunctuation = "description-punctuation"
	RuleIrreversible           = "description-irreversible"
	RuleDestructiveVerb        = "right-button-destructive-verb"
	RuleDangerStyle            = "right-button-danger-style"
	RuleAffirmativeVerb        = "right-button-affirmative-verb"
	RuleCancelButton           = "left-button-cancel"
	RuleAlertSingleButton      = "alert-single-button"
	RuleButtonCount            = "button-count"
	RuleButtonLength           = "button-length"
	RuleHanja                  = "hanja"
	RuleTermMapping            = "term-mapping"
	RuleWordReplacement        = "word-replacement"
)

// Default copy offered by the structural rules.
const (
	IrreversibleNotice = "삭제 후에는 데이터를 복구할 수 없어요."
	DeleteLabel        = "삭제"
	ConfirmLabel       = "확인"
	CancelLabel        = "취소"
)

var (
	irreversiblePhrases = []string{
		"되돌릴 수 없", "복구할 수 없", "복구가 불가", "복원할 수 없", "취소할 수 없", "되돌릴 수가 없",
		"cannot be undone", "can't be undone", "cannot be recovered", "irreversible",
	}
	destructiveVerbs = []string{"삭제", "제거", "폐기", "해지", "파기", "초기화", "delete", "remove", "discard"}
	affirmativeVerbs = []string{
		"확인", "저장", "변경", "적용", "승인", "등록", "진행", "반영", "완료",
		"confirm", "save", "change", "apply", "approve", "ok", "yes",
	}
	cancelWords = []string{"취소", "닫기", "아니요", "아니오", "나중에", "돌아가기", "cancel", "close", "no"}
)

// Engine lints against one immutable rule table.
type Engine struct {
	table      *rules.Table
	classifier *classify.Classifier
}

// New returns an Engine over t. A nil table lints with no substitution rules.
func New(t *rules.Table) *Engine {
	if t == nil {
		t = rules.Empty()
	}
	return &Engine{table: t, classifier: classify.New(classify.Options{})}
}

// WithClassifier returns a copy of e that judges button styles with c.
func (e *Engine) WithClassifier(c *classify.Classifier) *Engine {
	if c == nil {
		return e
	}
	cp := *e
	cp.classifier = c
	return &cp
}

// Table returns the rule table the engine was built with.
func (e *Engine) Table() *rules.Table { return e.table }

// Lint returns the diagnostics for fs classified as kind. It never fails and
// returns an empty (non-nil) slice when nothing is wrong.
func (e *Engine) Lint(fs domain.FieldSet, kind domain.Kind) []domain.LintItem {
	items := []domain.LintItem{}
	add := func(it *domain.LintItem) {
		if it != nil {
			items = append(items, *it)
		}
	}

	add(e.titlePunctuation(fs.Title.Text))
	add(descriptionPunctuation(fs.Description.Text))
	if kind == domain.KindDelete {
		add(irreversible(fs.Description.Text))
	}
	right := fs.Text(domain.FieldRightButton)
	left := fs.Text(domain.FieldLeftButton)
	switch kind {
	case domain.KindDelete:
		add(rightButton(right, destructiveVerbs, domain.SeverityFail, RuleDestructiveVerb, DeleteLabel,
			"삭제 모달의 확인 버튼에는 삭제 동작을 분명히 적어 주세요."))
	case domain.KindConfirm:
		add(rightButton(right, affirmativeVerbs, domain.SeverityWarn, RuleAffirmativeVerb, ConfirmLabel,
			"확인 버튼에는 수행할 동작을 적어 주세요."))
	}
	if kind == domain.KindConfirm || kind == domain.KindDelete {
		if !containsAny(left, cancelWords) {
			add(&domain.LintItem{
				Field:     domain.FieldLeftButton,
				Severity:  domain.SeverityWarn,
				Rule:      RuleCancelButton,
				Message:   "왼쪽 버튼은 취소 버튼이어야 해요.",
				Suggested: domain.Suggest(CancelLabel),
			})
		}
	}
	if kind == domain.KindAlert && left != "" {
		add(&domain.LintItem{
			Field:     domain.FieldLeftButton,
			Severity:  domain.SeverityWarn,
			Rule:      RuleAlertSingleButton,
			Message:   "알림 모달은 버튼을 하나만 사용해요.",
			Suggested: domain.Suggest(""),
		})
	}
	if kind.DangerStyle() {
		add(e.dangerStyle(fs.RightButton))
	}
	add(buttonCount(fs, kind))
	for _, field := range []string{domain.FieldLeftButton, domain.FieldRightButton} {
		add(e.buttonLength(field, fs.Text(field)))
	}

	if e.table.Style.HanjaWarning {
		for _, field := range domain.TextFields {
			if hasHan(fs.Text(field)) {
				add(&domain.LintItem{
					Field:    field,
					Severity: domain.SeverityWarn,
					Rule:     RuleHanja,
					Message:  "가능한 한 한자어 대신 쉬운 한국어 표현을 사용해 주세요.",
				})
			}
		}
	}

	for _, field := range domain.TextFields {
		text := fs.Text(field)
		for _, p := range e.TermMismatches(text) {
			add(&domain.LintItem{
				Field:     field,
				Severity:  domain.SeverityWarn,
				Rule:      RuleTermMapping,
				Message:   fmt.Sprintf("\"%s\" 대신 \"%s\"를 사용해 주세요.", p.From, p.To),
				Suggested: domain.Suggest(strings.ReplaceAll(text, p.From, p.To)),
			})
		}
	}

	for _, field := range domain.TextFields {
		text := fs.Text(field)
		replaced, fired := e.ReplaceWords(field, text)
		if len(fired) == 0 {
			continue
		}
		pairs := make([]string, len(fired))
		for i, p := range fired {
			pairs[i] = fmt.Sprintf("\"%s\" → \"%s\"", p.From, p.To)
		}
		add(&domain.LintItem{
			Field:     field,
			Severity:  domain.SeverityWarn,
			Rule:      RuleWordReplacement,
			Message:   "권장 표현으로 바꿔 주세요: " + strings.Join(pairs, ", "),
			Suggested: domain.Suggest(replaced),
		})
	}
	return items
}

func (e *Engine) titlePunctuation(title string) *domain.LintItem {
	if title == "" {
		return nil
	}
	last, _ := utf8.DecodeLastRuneInString(title)
	switch e.table.Style.TitlePunctuation {
	case rules.PunctuationOff:
		return nil
	case rules.PunctuationForbid:
		if !isTerminal(last) {
			return nil
		}
		return &domain.LintItem{
			Field:     domain.FieldTitle,
			Severity:  domain.SeverityWarn,
			Rule:      RuleTitlePunctuation,
			Message:   "타이틀에는 문장 끝 마침표를 넣지 않는 것을 권장합니다.",
			Suggested: domain.Suggest(strings.TrimRightFunc(title, isTerminal)),
		}
	default:
		if isTerminal(last) || isListMark(last) {
			return nil
		}
		return &domain.LintItem{
			Field:     domain.FieldTitle,
			Severity:  domain.SeverityWarn,
			Rule:      RuleTitlePunctuation,
			Message:   "문장형 타이틀은 문장 부호로 끝내 주세요.",
			Suggested: domain.Suggest(title + terminalFor(title)),
		}
	}
}

// terminalFor picks "?" for interrogative endings and "." otherwise.
func terminalFor(s string) string {
	for _, end := range []string{"까", "까요", "나요", "가요", "을래요", "할래요"} {
		if strings.HasSuffix(s, end) {
			return "?"
		}
	}
	return "."
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '?', '!', '。', '？', '！':
		return true
	}
	return false
}

func isListMark(r rune) bool { return r == ':' || r == ',' }

// descriptionPunctuation skips list-like bodies: anything with a colon, a
// comma or a line break.
func descriptionPunctuation(desc string) *domain.LintItem {
	if desc == "" || strings.ContainsAny(desc, ":,\n") {
		return nil
	}
	last, _ := utf8.DecodeLastRuneInString(desc)
	if isTerminal(last) {
		return nil
	}
	return &domain.LintItem{
		Field:     domain.FieldDescription,
		Severity:  domain.SeverityWarn,
		Rule:      RuleDescriptionPunctuation,
		Message:   "문장형 설명은 마침표로 끝내 주세요.",
		Suggested: domain.Suggest(desc + "."),
	}
}

func irreversible(desc string) *domain.LintItem {
	if containsAny(desc, irreversiblePhrases) {
		return nil
	}
	suggested := IrreversibleNotice
	if desc != "" {
		suggested = desc + " " + IrreversibleNotice
	}
	return &domain.LintItem{
		Field:     domain.FieldDescription,
		Severity:  domain.SeverityWarn,
		Rule:      RuleIrreversible,
		Message:   "삭제 모달 설명에는 되돌릴 수 없다는 안내가 필요해요.",
		Suggested: domain.Suggest(suggested),
	}
}

func rightButton(label string, verbs []string, sev domain.Severity, rule, fallback, msg string) *domain.LintItem {
	if containsAny(label, verbs) {
		return nil
	}
	return &domain.LintItem{
		Field:     domain.FieldRightButton,
		Severity:  sev,
		Rule:      rule,
		Message:   msg,
		Suggested: domain.Suggest(fallback),
	}
}

// dangerStyle only judges buttons that carry style information; a label-only
// field set has nothing to compare.
func (e *Engine) dangerStyle(b domain.ButtonField) *domain.LintItem {
	if b.Hidden || (b.Fill == "" && b.StyleName == "") || e.classifier.IsDangerButton(b) {
		return nil
	}
	return &domain.LintItem{
		Field:    domain.FieldRightButton,
		Severity: domain.SeverityWarn,
		Rule:     RuleDangerStyle,
		Message:  "삭제 모달의 확인 버튼은 위험(빨간색) 스타일을 사용해 주세요.",
	}
}

// buttonCount reports modals that show fewer buttons than their kind is
// designed with. Extra buttons on an alert are reported by the alert rule.
func buttonCount(fs domain.FieldSet, kind domain.Kind) *domain.LintItem {
	want := kind.ExpectedButtons()
	if want == 0 || fs.IsToast() || fs.ButtonCount >= want {
		return nil
	}
	field := domain.FieldLeftButton
	if !fs.RightButton.Present() {
		field = domain.FieldRightButton
	}
	return &domain.LintItem{
		Field:    field,
		Severity: domain.SeverityWarn,
		Rule:     RuleButtonCount,
		Message:  fmt.Sprintf("%s에는 버튼이 %d개 필요해요.", kind.Label(), want),
	}
}

func (e *Engine) buttonLength(field, label string) *domain.LintItem {
	limit := e.table.Style.ButtonMaxLength
	if limit <= 0 || utf8.RuneCountInString(label) <= limit {
		return nil
	}
	return &domain.LintItem{
		Field:    field,
		Severity: domain.SeverityWarn,
		Rule:     RuleButtonLength,
		Message:  fmt.Sprintf("버튼 문구는 %d자 이내로 줄여 주세요.", limit),
	}
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// containsAny matches Korean keywords as substrings and English keywords as
// whole words, case-insensitively, so "ok" does not match "Look".
func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if isASCII(k) {
			if containsWord(lower, k) {
				return true
			}
			continue
		}
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s with no ASCII letter directly
// before or after it.
func containsWord(s, word string) bool {
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		if (start == 0 || !isASCIILetter(s[start-1])) && (end == len(s) || !isASCIILetter(s[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isASCIILetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
