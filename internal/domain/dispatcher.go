package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// Message is one operator-panel protocol envelope.
type Message struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(msgType, requestID string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, RequestID: requestID, Payload: raw}, nil
}

// Emitter sends an intermediate message (progress) back to the panel.
type Emitter func(Message) error

// MessageHandler handles one request type and returns its response message.
type MessageHandler func(ctx context.Context, msg Message, emit Emitter) (Message, error)

// Dispatcher routes panel messages to the handler registered for their type.
// There is exactly one handler per type; handlers do not wrap each other.
type Dispatcher struct {
	handlers map[string]MessageHandler
	mu       sync.RWMutex
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]MessageHandler),
	}
}

// Register sets the handler for msgType, replacing any previous one.
func (d *Dispatcher) Register(msgType string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[msgType] = handler
}

// Types returns the registered message types.
func (d *Dispatcher) Types() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for t := range d.handlers {
		out = append(out, t)
	}
	return out
}

// Dispatch runs the handler for msg. A panicking handler is recovered and
// reported as TASK_FAILED.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, emit Emitter) (resp Message, err error) {
	d.mu.RLock()
	handler, ok := d.handlers[msg.Type]
	d.mu.RUnlock()

	if !ok {
		return Message{}, apperrors.ErrUnknownMessageType(msg.Type)
	}
	if emit == nil {
		emit = func(Message) error { return nil }
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Message handler panicked",
				zap.String("type", msg.Type),
				zap.String("request_id", msg.RequestID),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			resp = Message{}
			err = apperrors.Internal(apperrors.CodeTaskFailed, "작업을 처리하지 못했습니다.")
		}
	}()

	resp, err = handler(ctx, msg, emit)
	if err != nil {
		logger.Debug("Message handler returned error",
			zap.String("type", msg.Type),
			zap.String("request_id", msg.RequestID),
			zap.Error(err),
		)
		return Message{}, err
	}
	if resp.RequestID == "" {
		resp.RequestID = msg.RequestID
	}
	return resp, nil
}
