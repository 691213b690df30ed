package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/seola0114/ux-writing-plugin/internal/api/middleware"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/service"
)

// MessageBatch is the body of POST /messages: every intermediate message
// followed by the response (or an error message).
type MessageBatch struct {
	Messages []domain.Message `json:"messages"`
}

// PostMessage handles POST /messages. Task errors become an error envelope
// in the batch rather than an HTTP error status.
func (s *Server) PostMessage(c *gin.Context) {
	var msg domain.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		_ = c.Error(apperrors.ErrInvalidRequest("body", err))
		return
	}
	if msg.RequestID == "" {
		msg.RequestID = middleware.GetRequestID(c.Request.Context())
	}

	var (
		mu    sync.Mutex
		batch = MessageBatch{Messages: []domain.Message{}}
	)
	emit := func(m domain.Message) error {
		mu.Lock()
		defer mu.Unlock()
		batch.Messages = append(batch.Messages, m)
		return nil
	}

	resp := s.dispatch(c.Request.Context(), msg, emit)
	_ = emit(resp)
	c.JSON(http.StatusOK, batch)
}

// dispatch runs msg and converts a task error into an error message.
func (s *Server) dispatch(ctx context.Context, msg domain.Message, emit domain.Emitter) domain.Message {
	resp, err := s.dispatcher.Dispatch(ctx, msg, emit)
	if err != nil {
		return service.ErrorMessage(msg.RequestID, err)
	}
	return resp
}
