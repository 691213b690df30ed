package errors

import "net/http"

// Operator input codes.
const (
	CodeNoSelection        = "NO_SELECTION"
	CodeNotAContainer      = "NOT_A_CONTAINER"
	CodeEmptyPrompt        = "EMPTY_PROMPT"
	CodeInvalidNodeTree    = "INVALID_NODE_TREE"
	CodeUnknownMessageType = "UNKNOWN_MESSAGE_TYPE"
	CodeInvalidRequest     = "INVALID_REQUEST_FIELD"
)

// Backend and runtime codes.
const (
	CodeRuleTableUnavailable = "RULE_TABLE_UNAVAILABLE"
	CodeAIBackendFailed      = "AI_BACKEND_FAILED"
	CodeSpellcheckFailed     = "SPELLCHECK_FAILED"
	CodeSpellcheckLimited    = "SPELLCHECK_RATE_LIMITED"
	CodeTaskFailed           = "TASK_FAILED"
)

// ErrNoSelection is returned when a task needs a selected frame and there is none.
func ErrNoSelection() *AppError {
	return &AppError{
		Code:       CodeNoSelection,
		Message:    "프레임/컴포넌트를 선택해 주세요.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrNotAContainer is returned when the selected node is a bare text layer.
func ErrNotAContainer(nodeType string) *AppError {
	return (&AppError{
		Code:       CodeNotAContainer,
		Message:    "텍스트 레이어가 아닌 프레임/컴포넌트를 선택해 주세요.",
		HTTPStatus: http.StatusBadRequest,
	}).WithParams(map[string]interface{}{"type": nodeType})
}

// ErrEmptyPrompt is returned for a blank free-text AI prompt.
func ErrEmptyPrompt() *AppError {
	return &AppError{
		Code:       CodeEmptyPrompt,
		Message:    "상황/문장을 입력해 주세요.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrUnknownMessageType is returned by the dispatcher for an unregistered type.
func ErrUnknownMessageType(msgType string) *AppError {
	return (&AppError{
		Code:       CodeUnknownMessageType,
		Message:    "unknown message type: " + msgType,
		HTTPStatus: http.StatusBadRequest,
	}).WithParams(map[string]interface{}{"type": msgType})
}

// ErrInvalidRequest creates a bad request error for an unparsable payload field.
func ErrInvalidRequest(field string, err error) *AppError {
	return Wrap(err, CodeInvalidRequest, "invalid request field: "+field, http.StatusBadRequest)
}
