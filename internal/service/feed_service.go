package service

import (
	"context"

	"github.com/google/uuid"

	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/internal/pkg/mailer"
	"ai-procurement-be/internal/repository/specification"
	"ai-procurement-be/internal/repository/unitofwork"
	"ai-procurement-be/pkg/events"
	pktNats "ai-procurement-be/pkg/nats"
)

// EventDelivery pushes real-time updates to connected dashboards.
// Implemented by the websocket Hub.
type EventDelivery interface {
	Broadcast(eventType string, payload interface{})
}

// FeedService bridges the external event bus to the live dashboard feed
// and routes approval requests to a human reviewer's inbox.
type FeedService struct {
	subscriber    *pktNats.Subscriber
	delivery      EventDelivery
	mail          mailer.IEmailService
	approvalEmail string
	uowFactory    unitofwork.RepositoryFactory
	logger        logger.ILogger
}

func NewFeedService(
	sub *pktNats.Subscriber,
	delivery EventDelivery,
	mail mailer.IEmailService,
	approvalEmail string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *FeedService {
	return &FeedService{
		subscriber:    sub,
		delivery:      delivery,
		mail:          mail,
		approvalEmail: approvalEmail,
		uowFactory:    uowFactory,
		logger:        log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *FeedService) Start() {
	err := s.subscriber.Subscribe("events.>", "feed-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("FeedService", "Failed to start feed subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("FeedService", "Feed service started, listening to events.>", nil)
}

func (s *FeedService) handleEvent(ctx context.Context, event events.Event) error {
	if s.delivery != nil {
		s.delivery.Broadcast(event.EventType(), event.Payload())
	}

	if event.EventType() == events.TypeApprovalRequired {
		// Return nil even when mail fails: the event was delivered to
		// the feed, and redelivering it would duplicate the broadcast.
		s.sendApprovalMail(ctx, event)
	}
	return nil
}

func (s *FeedService) sendApprovalMail(ctx context.Context, event events.Event) {
	if s.mail == nil || s.approvalEmail == "" {
		return
	}

	runIDStr, _ := event.Payload()["run_id"].(string)
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.logger.Warn("FeedService", "Approval event without a valid run id", map[string]interface{}{"run_id": runIDStr})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	run, err := uow.WorkflowRunRepository().FindOne(ctx, specification.ByID{ID: runID})
	if err != nil || run == nil {
		s.logger.Warn("FeedService", "Could not load run for approval mail", map[string]interface{}{"run_id": runIDStr})
		return
	}

	if err := s.mail.SendApprovalRequest(s.approvalEmail, &run.Recommendation); err != nil {
		s.logger.Error("FeedService", "Approval mail failed", map[string]interface{}{
			"run_id": runIDStr,
			"error":  err.Error(),
		})
	}
}
