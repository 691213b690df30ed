package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/seola0114/ux-writing-plugin/internal/api/middleware"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/service"
	"github.com/seola0114/ux-writing-plugin/internal/spellcheck"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "json")
}

const modalJSON = `{"selection":[{"id":"root","type":"FRAME","name":"Modal","children":[
	{"id":"title","type":"TEXT","name":"title","characters":"변경 내용을 저장할까요","y":0},
	{"id":"desc","type":"TEXT","name":"description","characters":"저장하면 바로 반영됩니다.","y":40},
	{"id":"mb","type":"FRAME","name":"modal_button","y":200,"children":[
		{"id":"b1","type":"FRAME","name":"buttons","x":0,"y":200,"children":[{"id":"left","type":"TEXT","name":"label","characters":"취소","x":10,"y":210}]},
		{"id":"b2","type":"FRAME","name":"buttons","x":100,"y":200,"children":[{"id":"right","type":"TEXT","name":"label","characters":"저장","x":110,"y":210}]}
	]}
]}]}`

func newTestRouter(srv *Server) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	v1 := r.Group("/api/v1")
	v1.GET("/health/live", srv.GetLiveness)
	v1.GET("/health/ready", srv.GetReadiness)
	v1.POST("/scan", srv.PostScan)
	v1.POST("/apply", srv.PostApply)
	v1.POST("/ai-suggest", srv.PostAISuggest)
	v1.POST("/spellcheck", srv.PostSpellcheck)
	v1.POST("/lint-ai", srv.PostLintAI)
	v1.POST("/messages", srv.PostMessage)
	v1.POST("/rules/reload", srv.PostRulesReload)
	v1.GET("/ws", srv.GetWebsocket)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodGet, "/api/v1/health/live", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/health/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	var h Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	require.Equal(t, "ok", h.Checks["rules"])
}

func TestPostScan(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/scan", modalJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res service.ScanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, domain.KindConfirm, res.Kind)
	require.Len(t, res.LintItems, 1)
	require.Equal(t, "title-punctuation", res.LintItems[0].Rule)
	require.Equal(t, "변경 내용을 저장할까요?", *res.LintItems[0].Suggested)
}

func TestPostScan_NoSelection(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/scan", `{"selection":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), apperrors.CodeNoSelection)
}

func TestPostScan_BadBody(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/scan", `{"selection":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), apperrors.CodeInvalidRequest)
}

func TestPostApply(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))
	body := strings.TrimSuffix(modalJSON, "}") + `,"fields":{"title":"변경 내용을 저장할까요?","description":""}}`

	w := do(t, r, http.MethodPost, "/api/v1/apply", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res service.ApplyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 1, res.AppliedCount)
	require.Equal(t, "title", res.Patches[0].NodeID)
	require.Equal(t, "변경 내용을 저장할까요?", res.Patches[0].Characters)
}

func TestPostAISuggest_EmptyPrompt(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/ai-suggest", `{"freeTextPrompt":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), apperrors.CodeEmptyPrompt)
}

func TestPostSpellcheck(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/spellcheck", `{"fields":[{"field":"title","text":"저장할까요  ?"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		PerFieldErrors map[string][]map[string]any `json:"perFieldErrors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.PerFieldErrors["title"])
}

func TestPostLintAI_Local(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/lint-ai", `{"prompt":"결제 수단을 영구 삭제하는 상황"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"delete"`)

	w = do(t, r, http.MethodPost, "/api/v1/lint-ai", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostMessage(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	body := `{"type":"spellcheck-request","requestId":"m1","payload":{"fields":[{"field":"title","text":"안내"},{"field":"rightButton","text":"확인"}]}}`
	w := do(t, r, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, w.Code)

	var batch MessageBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch.Messages, 3)
	require.Equal(t, service.MsgSpellProgress, batch.Messages[0].Type)
	require.Equal(t, service.MsgSpellcheckResult, batch.Messages[2].Type)
	require.Equal(t, "m1", batch.Messages[2].RequestID)
}

func TestPostMessage_UnknownType(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/messages", `{"type":"resize-request","requestId":"m2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var batch MessageBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch.Messages, 1)
	require.Equal(t, service.MsgError, batch.Messages[0].Type)

	var payload service.ErrorPayload
	require.NoError(t, json.Unmarshal(batch.Messages[0].Payload, &payload))
	require.Equal(t, apperrors.CodeUnknownMessageType, payload.Code)
}

func TestPostRulesReload(t *testing.T) {
	r := newTestRouter(NewServer(ServerDeps{}))

	w := do(t, r, http.MethodPost, "/api/v1/rules/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Contains(t, stats, "terms")
}

func TestWebsocket_SpellcheckProgressThenResult(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(NewServer(ServerDeps{})))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	req, err := domain.NewMessage(service.MsgSpellcheckRequest, "w1", service.SpellcheckRequest{
		Fields: []spellcheck.FieldText{{Field: "title", Text: "저장할까요"}, {Field: "leftButton", Text: "취소"}},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(req))

	var got []domain.Message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(got) < 3 {
		var m domain.Message
		require.NoError(t, conn.ReadJSON(&m))
		got = append(got, m)
	}
	require.Equal(t, service.MsgSpellProgress, got[0].Type)
	require.Equal(t, service.MsgSpellProgress, got[1].Type)
	require.Equal(t, service.MsgSpellcheckResult, got[2].Type)
	require.Equal(t, "w1", got[2].RequestID)
}

func TestWebsocket_SelectionChangedPushesScan(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(NewServer(ServerDeps{})))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(domain.Message{
		Type:    service.MsgSelectionChanged,
		Payload: json.RawMessage(modalJSON),
	}))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m domain.Message
	require.NoError(t, conn.ReadJSON(&m))
	require.Equal(t, service.MsgScanResult, m.Type)

	var res service.ScanResult
	require.NoError(t, json.Unmarshal(m.Payload, &res))
	require.Equal(t, domain.KindConfirm, res.Kind)
	require.Equal(t, "변경 내용을 저장할까요", res.FieldSet.Title.Text)
}

func TestWebsocket_RejectsOrigin(t *testing.T) {
	srv := NewServer(ServerDeps{CheckOrigin: func(o string) bool { return o == "null" }})
	ts := httptest.NewServer(newTestRouter(srv))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
