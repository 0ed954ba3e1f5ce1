package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ai-procurement-be/internal/dto"
	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/repository/contract"
	"ai-procurement-be/internal/repository/specification"
	"ai-procurement-be/internal/repository/unitofwork"
)

type stubRunRepo struct {
	run *entity.WorkflowResult
}

func (r *stubRunRepo) Create(context.Context, *entity.WorkflowResult) error { return nil }
func (r *stubRunRepo) Delete(context.Context, uuid.UUID) error              { return nil }
func (r *stubRunRepo) FindOne(context.Context, ...specification.Specification) (*entity.WorkflowResult, error) {
	return r.run, nil
}
func (r *stubRunRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.WorkflowResult, error) {
	return nil, nil
}
func (r *stubRunRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

type stubUow struct {
	repo contract.WorkflowRunRepository
}

func (u *stubUow) Begin(context.Context) error { return nil }
func (u *stubUow) Commit() error               { return nil }
func (u *stubUow) Rollback() error             { return nil }
func (u *stubUow) WorkflowRunRepository() contract.WorkflowRunRepository {
	return u.repo
}

type stubUowFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *stubUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func runRecordedMessage(t *testing.T, runID uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.RunRecordedMessage{RunID: runID})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

// The container hands the consumer a nil publisher when NATS is
// unreachable; a persisted run must then be acknowledged and skipped,
// never crash the consumer goroutine.
func TestConsumerAcksWhenPublisherUnavailable(t *testing.T) {
	run := &entity.WorkflowResult{
		RunID: uuid.New(),
		Query: "laptop",
		Step:  "compliance_check_complete",
	}
	factory := &stubUowFactory{uow: &stubUow{repo: &stubRunRepo{run: run}}}
	cs := NewConsumerService(nil, factory, nil).(*consumerService)

	msg := runRecordedMessage(t, run.RunID)
	require.NotPanics(t, func() {
		cs.processMessage(context.Background(), msg)
	})

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acknowledged")
	}
}

func TestConsumerAcksMissingRun(t *testing.T) {
	factory := &stubUowFactory{uow: &stubUow{repo: &stubRunRepo{run: nil}}}
	cs := NewConsumerService(nil, factory, nil).(*consumerService)

	msg := runRecordedMessage(t, uuid.New())
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acknowledged")
	}
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	factory := &stubUowFactory{uow: &stubUow{repo: &stubRunRepo{}}}
	cs := NewConsumerService(nil, factory, nil).(*consumerService)

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acknowledged")
	}
}
