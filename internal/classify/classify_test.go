package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

func modal(title, desc, left, right string) domain.FieldSet {
	return domain.FieldSetInput{
		Title:       title,
		Description: desc,
		LeftButton:  left,
		RightButton: right,
	}.FieldSet()
}

func TestClassify(t *testing.T) {
	danger := modal("변경사항을 반영할까요?", "", "취소", "반영")
	danger.RightButton.Fill = "#E53935"

	styled := modal("변경사항을 반영할까요?", "", "취소", "반영")
	styled.RightButton.StyleName = "Button/Danger/Primary"

	hiddenDanger := modal("안내", "", "", "")
	hiddenDanger.RightButton = domain.ButtonField{Hidden: true, Fill: "#FF0000"}

	toast := func(title string) domain.FieldSet {
		fs := domain.FieldSetInput{Title: title, Toast: true}.FieldSet()
		return fs
	}

	tests := []struct {
		name string
		fs   domain.FieldSet
		want domain.Kind
	}{
		{"destructive title with two buttons", modal("삭제하시겠습니까", "", "취소", "확인"), domain.KindDelete},
		{"destructive title with no buttons", modal("데이터를 영구 삭제합니다.", "", "", ""), domain.KindDelete},
		{"destructive description", modal("진행할까요?", "되돌릴 수 없는 작업이에요.", "취소", "확인"), domain.KindDelete},
		{"destructive right button", modal("진행할까요?", "", "취소", "삭제"), domain.KindDelete},
		{"english keyword", modal("Delete this item?", "", "Cancel", "OK"), domain.KindDelete},
		{"danger fill", danger, domain.KindDelete},
		{"danger style name", styled, domain.KindDelete},
		{"hidden button style ignored", hiddenDanger, domain.KindAlert},
		{"single button", modal("저장했어요.", "", "", "확인"), domain.KindAlert},
		{"empty", modal("", "", "", ""), domain.KindAlert},
		{"two buttons", modal("저장할까요?", "", "취소", "저장"), domain.KindConfirm},
		{"toast success", toast("저장되었습니다."), domain.KindToastSuccess},
		{"toast caution", toast("네트워크 연결을 확인해 주세요."), domain.KindToastCaution},
		{"toast failure mentioning save", toast("저장에 실패했습니다."), domain.KindToastCaution},
		{"toast never delete", toast("삭제되었습니다."), domain.KindToastSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.fs))
		})
	}
}

func TestClassify_LowButtonCountNeedsEvidenceForDelete(t *testing.T) {
	for _, fs := range []domain.FieldSet{
		modal("안내", "설정이 변경되었어요.", "", "확인"),
		modal("", "", "", ""),
		modal("업로드할까요?", "", "", "업로드"),
	} {
		require.LessOrEqual(t, fs.ButtonCount, 1)
		require.NotEqual(t, domain.KindDelete, Classify(fs))
	}
}

func TestIsDangerFill(t *testing.T) {
	tests := []struct {
		hex  string
		min  int
		want bool
	}{
		{"#E53935", DefaultRedNibbleMin, true},
		{"#FF0000", DefaultRedNibbleMin, true},
		{"ff3b30", DefaultRedNibbleMin, true},
		{"#F00", DefaultRedNibbleMin, true},
		{"#E53935FF", DefaultRedNibbleMin, true},
		{"#C62828", DefaultRedNibbleMin, false},
		{"#C62828", 0xC, true},
		{"#FFA000", DefaultRedNibbleMin, false},
		{"#FFFFFF", DefaultRedNibbleMin, false},
		{"#1E88E5", DefaultRedNibbleMin, false},
		{"", DefaultRedNibbleMin, false},
		{"#ZZ0000", DefaultRedNibbleMin, false},
		{"#12345", DefaultRedNibbleMin, false},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			require.Equal(t, tt.want, IsDangerFill(tt.hex, tt.min))
		})
	}
}

func TestNew_Threshold(t *testing.T) {
	b := domain.ButtonField{Label: "반영", Fill: "#C62828"}
	require.False(t, New(Options{}).IsDangerButton(b))
	require.True(t, New(Options{DangerRedNibbleMin: 0xC}).IsDangerButton(b))
	require.False(t, New(Options{DangerRedNibbleMin: 99}).IsDangerButton(b))
}

func TestIsDangerStyleName(t *testing.T) {
	require.True(t, IsDangerStyleName("Button/Danger"))
	require.True(t, IsDangerStyleName("color-red-500"))
	require.True(t, IsDangerStyleName("버튼/위험"))
	require.True(t, IsDangerStyleName("Error Fill"))
	require.False(t, IsDangerStyleName("Button/Bordered"))
	require.False(t, IsDangerStyleName("Primary/Blue"))
	require.False(t, IsDangerStyleName(""))
}

func TestKeywords(t *testing.T) {
	require.True(t, HasDestructiveKeyword("", "계정을 해지할까요?"))
	require.True(t, HasDestructiveKeyword("REMOVE member"))
	require.False(t, HasDestructiveKeyword("저장할까요?", ""))
	require.True(t, HasSuccessKeyword("등록 완료"))
	require.True(t, HasCautionKeyword("업로드할 수 없어요."))
	require.False(t, HasCautionKeyword())
}
