package suggest

import (
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
)

// template is the canned copy for one kind. Empty strings leave the field empty.
type template struct {
	Title, Identifier, Description, Condition, LeftButton, RightButton string
}

var templates = map[domain.Kind]template{
	domain.KindDelete: {
		Title:       "선택한 항목을 삭제할까요?",
		Identifier:  "되돌릴 수 없는 작업입니다.",
		Description: lint.IrreversibleNotice,
		LeftButton:  lint.CancelLabel,
		RightButton: lint.DeleteLabel,
	},
	domain.KindConfirm: {
		Title:       "입력하신 내용으로 진행할까요?",
		Description: "저장된 내용은 정산에 바로 반영됩니다.",
		LeftButton:  lint.CancelLabel,
		RightButton: lint.ConfirmLabel,
	},
	domain.KindAlert: {
		Title:       "작업을 다시 한 번 확인해 주세요.",
		Description: "요청하신 작업을 완료할 수 없어요.",
		RightButton: lint.ConfirmLabel,
	},
	domain.KindToastSuccess: {
		Title: "저장되었어요.",
	},
	domain.KindToastCaution: {
		Title: "요청을 처리하지 못했어요.",
	},
}

func templateFor(kind domain.Kind) template {
	if t, ok := templates[kind]; ok {
		return t
	}
	return templates[domain.KindConfirm]
}

func (t template) get(field string) string {
	switch field {
	case domain.FieldTitle:
		return t.Title
	case domain.FieldIdentifier:
		return t.Identifier
	case domain.FieldDescription:
		return t.Description
	case domain.FieldCondition:
		return t.Condition
	case domain.FieldLeftButton:
		return t.LeftButton
	case domain.FieldRightButton:
		return t.RightButton
	}
	return ""
}
