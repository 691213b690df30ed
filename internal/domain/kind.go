package domain

import "strings"

// Kind is the UX component taxonomy key.
type Kind string

const (
	KindConfirm      Kind = "confirm"
	KindDelete       Kind = "delete"
	KindAlert        Kind = "alert"
	KindToastSuccess Kind = "toast-success"
	KindToastCaution Kind = "toast-caution"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindConfirm, KindDelete, KindAlert, KindToastSuccess, KindToastCaution}

var kindLabels = map[Kind]string{
	KindConfirm:      "Confirm Modal",
	KindDelete:       "Destructive Modal",
	KindAlert:        "Alert Modal",
	KindToastSuccess: "Toast - Success",
	KindToastCaution: "Toast - Caution",
}

// Label returns the canonical display label.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// ExpectedButtons returns how many buttons the kind is designed with.
func (k Kind) ExpectedButtons() int {
	switch k {
	case KindConfirm, KindDelete:
		return 2
	case KindAlert:
		return 1
	}
	return 0
}

// DangerStyle reports whether the affirmative button is expected in a danger style.
func (k Kind) DangerStyle() bool { return k == KindDelete }

// IsToast reports whether k is a toast variant.
func (k Kind) IsToast() bool { return k == KindToastSuccess || k == KindToastCaution }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// ParseKind accepts a kind key, a display label, or the short forms the AI
// backend returns ("toast", "caution", "destructive"). ok is false when
// nothing matched.
func ParseKind(s string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for k, label := range kindLabels {
		if key == string(k) || key == strings.ToLower(label) {
			return k, true
		}
	}
	switch key {
	case "destructive", "danger", "delete modal", "destructive-modal":
		return KindDelete, true
	case "confirm modal", "caution", "info":
		return KindConfirm, true
	case "toast", "toast-info":
		return KindToastCaution, true
	case "success":
		return KindToastSuccess, true
	}
	return "", false
}
