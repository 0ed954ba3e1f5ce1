package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-procurement-be/internal/dto"
	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/repository/specification"
	"ai-procurement-be/internal/repository/unitofwork"
	"ai-procurement-be/pkg/events"
	pktNats "ai-procurement-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal run-recorded topic and turns each
// persisted run into external bus events. Keeping NATS publishing off
// the request path means a slow broker never delays the caller.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	publisher  *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	publisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, RunRecordedTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RunRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal run-recorded message: %v", err)
		msg.Ack() // malformed messages never become processable
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	run, err := uow.WorkflowRunRepository().FindOne(ctx, specification.ByID{ID: payload.RunID})
	if err != nil {
		log.Printf("[ERROR] Failed to load run %s: %v", payload.RunID, err)
		msg.Nack()
		return
	}
	if run == nil {
		log.Printf("[WARN] Run not found: %s", payload.RunID)
		msg.Ack()
		return
	}

	if cs.publisher == nil {
		// The container degrades to a nil publisher when NATS is down;
		// external events are best-effort, the run itself is already
		// persisted.
		log.Printf("[WARN] Event bus unavailable, skipping events for run %s", run.RunID)
		msg.Ack()
		return
	}

	for _, event := range cs.eventsFor(run) {
		if err := cs.publisher.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to publish %s for run %s: %v", event.EventType(), run.RunID, err)
			msg.Nack()
			return
		}
	}

	msg.Ack()
}

func (cs *consumerService) eventsFor(run *entity.WorkflowResult) []events.Event {
	var out []events.Event

	if run.Step == "workflow_failed" {
		reason := "unknown"
		if len(run.Errors) > 0 {
			reason = run.Errors[len(run.Errors)-1]
		}
		out = append(out, events.NewProcurementFailed(run.RunID.String(), run.Query, reason))
		return out
	}

	out = append(out, events.NewProcurementCompleted(
		run.RunID.String(), run.Query, run.Step, len(run.Errors), run.ExecutionTime))

	if run.Recommendation.HumanApprovalNeeded {
		out = append(out, events.NewApprovalRequired(
			run.RunID.String(), run.Query, run.Recommendation.ApprovalReason, run.Recommendation.ConfidenceScore))
	}
	return out
}
