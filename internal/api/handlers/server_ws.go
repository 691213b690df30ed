package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/api/middleware"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/worker"
	"github.com/seola0114/ux-writing-plugin/internal/service"
)

const (
	defaultPingPeriod = 30 * time.Second
	writeWait         = 10 * time.Second
	maxMessageSize    = 1 << 20
	sendBuffer        = 32
)

func newUpgrader(checkOrigin func(string) bool) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if checkOrigin == nil {
				return true
			}
			return checkOrigin(r.Header.Get("Origin"))
		},
	}
}

// GetWebsocket handles GET /ws. Every inbound envelope runs as its own task;
// progress and responses are written back in the order they are produced.
// selection-changed envelopes update the session document, which is rescanned
// and pushed back as a scan-result.
func (s *Server) GetWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	session := &wsSession{
		id:   middleware.NewID(),
		conn: conn,
		send: make(chan domain.Message, sendBuffer),
		done: make(chan struct{}),
		doc:  host.NewMemoryDocument(host.Snapshot{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopWatch := s.svc.Watch(ctx, session.doc, session.emit)

	log := logger.With(zap.String("session", session.id))
	log.Debug("Websocket session opened")

	go session.writeLoop(s.pingPeriod, log)
	s.readLoop(ctx, session, log)

	stopWatch()
	cancel()
	session.tasks.Wait()
	session.close()
	log.Debug("Websocket session closed")
}

type wsSession struct {
	id    string
	conn  *websocket.Conn
	send  chan domain.Message
	done  chan struct{}
	once  sync.Once
	tasks sync.WaitGroup
	doc   *host.MemoryDocument
}

// emit queues m for the writer. It fails once the session is closed.
func (ws *wsSession) emit(m domain.Message) error {
	select {
	case <-ws.done:
		return websocket.ErrCloseSent
	case ws.send <- m:
		return nil
	}
}

func (ws *wsSession) close() {
	ws.once.Do(func() { close(ws.done) })
}

func (s *Server) readLoop(ctx context.Context, ws *wsSession, log *zap.Logger) {
	ws.conn.SetReadLimit(maxMessageSize)
	_ = ws.conn.SetReadDeadline(time.Now().Add(2 * s.pingPeriod))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(2 * s.pingPeriod))
	})

	for {
		var msg domain.Message
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read failed", zap.Error(err))
			}
			return
		}
		if msg.Type == "" {
			_ = ws.emit(service.ErrorMessage(msg.RequestID, apperrors.ErrUnknownMessageType("")))
			continue
		}
		if msg.Type == service.MsgSelectionChanged {
			var snap host.Snapshot
			if err := json.Unmarshal(msg.Payload, &snap); err != nil {
				_ = ws.emit(service.ErrorMessage(msg.RequestID, apperrors.ErrInvalidRequest("payload", err)))
				continue
			}
			ws.doc.SetSelection(snap.Selection)
			continue
		}
		if msg.RequestID == "" {
			msg.RequestID = middleware.NewID()
		}
		s.runTask(ctx, ws, msg, log)
	}
}

func (s *Server) runTask(ctx context.Context, ws *wsSession, msg domain.Message, log *zap.Logger) {
	ws.tasks.Add(1)
	task := func(ctx context.Context) {
		defer ws.tasks.Done()
		_ = ws.emit(s.dispatch(ctx, msg, ws.emit))
	}

	if s.pools == nil {
		go task(ctx)
		return
	}
	// The pool skips tasks whose context is already done; the task must
	// still run so the session's wait group is released.
	run := worker.Task(func(context.Context) { task(ctx) })
	if err := s.pools.General.Submit(context.WithoutCancel(ctx), run); err != nil {
		ws.tasks.Done()
		log.Warn("Websocket task rejected",
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		_ = ws.emit(service.ErrorMessage(msg.RequestID,
			apperrors.Wrap(err, apperrors.CodeTaskFailed, "작업을 시작하지 못했습니다.", http.StatusServiceUnavailable)))
	}
}

func (ws *wsSession) writeLoop(pingPeriod time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.conn.Close()
	}()

	for {
		select {
		case <-ws.done:
			_ = ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case m := <-ws.send:
			_ = ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteJSON(m); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Warn("Websocket write failed", zap.Error(err))
				}
				ws.close()
				return
			}
		case <-ticker.C:
			_ = ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ws.close()
				return
			}
		}
	}
}
