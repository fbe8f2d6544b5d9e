package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/events"
)

// EventSubscriber registers handlers for session events.
type EventSubscriber interface {
	Subscribe(handler events.EventHandler)
}

// AuditService logs every session transition. Events never carry the
// token, so nothing secret reaches the log.
type AuditService struct {
	logger *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{logger: logger.Named("session")}
}

// RegisterHandlers subscribes to the session store.
func (a *AuditService) RegisterHandlers(source EventSubscriber) {
	if source == nil {
		return
	}
	source.Subscribe(a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("state", event.State),
		zap.Time("at", event.Timestamp),
	}
	switch event.Type {
	case events.EventSessionRestored:
		a.logger.Info("SessionRestored", fields...)
	case events.EventSessionSignedIn:
		a.logger.Info("SessionSignedIn", append(fields, zap.Bool("replaced", event.Replaced))...)
	case events.EventSessionSignedOut:
		a.logger.Info("SessionSignedOut", fields...)
	default:
		a.logger.Debug("unhandled session event", append(fields, zap.String("type", string(event.Type)))...)
	}
	return nil
}
