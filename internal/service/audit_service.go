package service

import (
	"context"

	"job-wizard-be/internal/pkg/logger"
	"job-wizard-be/pkg/events"
	pktNats "job-wizard-be/pkg/nats"
)

// AuditService drains the JetStream event stream into the structured log.
// It is the durable record of saves and searches; losing it never affects
// the wizard itself.
type IAuditService interface {
	Start() error
}

type auditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *auditService) Start() error {
	return s.subscriber.Subscribe("events.>", "wizard-audit", func(ctx context.Context, event events.Event) error {
		s.logger.Info("Audit", event.EventType(), event.Payload())
		return nil
	})
}
