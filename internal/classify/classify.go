// Package classify maps an extracted FieldSet onto the UX component taxonomy.
package classify

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

// DefaultRedNibbleMin is the lowest red high nibble a fill needs to count as danger.
const DefaultRedNibbleMin = 0xD

// maxMutedNibble is the highest green/blue high nibble a danger fill may carry.
const maxMutedNibble = 0x7

var destructiveKeywords = []string{
	"삭제", "제거", "폐기", "초기화", "영구", "되돌릴 수 없", "복구할 수 없", "해지", "파기",
	"delete", "remove", "discard", "reset", "permanent", "irreversible",
}

var successKeywords = []string{
	"저장", "완료", "성공", "등록", "적용", "되었습니다", "됐어요",
	"save", "complete", "success", "done",
}

var cautionKeywords = []string{
	"실패", "불가", "주의", "없습니다", "없어요", "할 수 없", "오류", "다시 시도", "재시도",
	"fail", "error", "retry",
}

var dangerStyleTokens = []string{"danger", "error", "destructive", "red", "critical"}

var dangerStyleKorean = []string{"위험", "삭제", "경고"}

// Options tunes the classifier heuristics.
type Options struct {
	// DangerRedNibbleMin overrides DefaultRedNibbleMin when in 1..15.
	DangerRedNibbleMin int
}

// Classifier is a pure function of a FieldSet. The zero value is not usable; use New.
type Classifier struct {
	redMin int
}

// New returns a Classifier.
func New(opts Options) *Classifier {
	redMin := opts.DangerRedNibbleMin
	if redMin <= 0 || redMin > 0xF {
		redMin = DefaultRedNibbleMin
	}
	return &Classifier{redMin: redMin}
}

var defaultClassifier = New(Options{})

// Classify runs the default classifier.
func Classify(fs domain.FieldSet) domain.Kind {
	return defaultClassifier.Classify(fs)
}

// Classify decides the kind. Toast containers only ever yield toast kinds,
// and a failure notice stays a caution toast even when it mentions saving.
// For modals the first matching rule wins: destructive wording or a danger
// styled affirmative button, then button count.
func (c *Classifier) Classify(fs domain.FieldSet) domain.Kind {
	if fs.IsToast() {
		if !HasCautionKeyword(fs.Title.Text, fs.Description.Text) && HasSuccessKeyword(fs.Title.Text, fs.Description.Text) {
			return domain.KindToastSuccess
		}
		return domain.KindToastCaution
	}
	if HasDestructiveKeyword(fs.Title.Text, fs.Description.Text, fs.RightButton.Label) {
		return domain.KindDelete
	}
	if !fs.RightButton.Hidden && c.IsDangerButton(fs.RightButton) {
		return domain.KindDelete
	}
	if fs.ButtonCount <= 1 {
		return domain.KindAlert
	}
	return domain.KindConfirm
}

// IsDangerButton reports whether the button background reads as a danger style.
func (c *Classifier) IsDangerButton(b domain.ButtonField) bool {
	return IsDangerStyleName(b.StyleName) || IsDangerFill(b.Fill, c.redMin)
}

// HasDestructiveKeyword reports whether any text mentions a destructive action.
func HasDestructiveKeyword(texts ...string) bool {
	return containsAny(texts, destructiveKeywords)
}

// HasSuccessKeyword reports whether any text reads as a completed action.
func HasSuccessKeyword(texts ...string) bool {
	return containsAny(texts, successKeywords)
}

// HasCautionKeyword reports whether any text reports a failure or a blocked action.
func HasCautionKeyword(texts ...string) bool {
	return containsAny(texts, cautionKeywords)
}

func containsAny(texts, keywords []string) bool {
	for _, t := range texts {
		if t == "" {
			continue
		}
		lower := strings.ToLower(t)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
	}
	return false
}

// IsDangerStyleName matches style names such as "Button/Danger" or "color-red-500".
// English words are matched as whole tokens so "bordered" is not "red".
func IsDangerStyleName(name string) bool {
	if name == "" {
		return false
	}
	for _, k := range dangerStyleKorean {
		if strings.Contains(name, k) {
			return true
		}
	}
	tokens := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		for _, k := range dangerStyleTokens {
			if tok == k {
				return true
			}
		}
	}
	return false
}

// IsDangerFill reports whether a hex fill is mostly red: the red high nibble
// is at least redMin and the green and blue high nibbles stay low. It
// accepts #RGB, #RRGGBB and #RRGGBBAA, with or without the hash.
func IsDangerFill(hex string, redMin int) bool {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	var r, g, b string
	switch len(hex) {
	case 3:
		r, g, b = hex[0:1], hex[1:2], hex[2:3]
	case 6, 8:
		r, g, b = hex[0:1], hex[2:3], hex[4:5]
	default:
		return false
	}
	rv, err1 := strconv.ParseUint(r, 16, 8)
	gv, err2 := strconv.ParseUint(g, 16, 8)
	bv, err3 := strconv.ParseUint(b, 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return int(rv) >= redMin && gv <= maxMutedNibble && bv <= maxMutedNibble
}
