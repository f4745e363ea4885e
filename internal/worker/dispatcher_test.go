package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	outbox "resortdesk/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) PendingBatch(ctx context.Context, limit int) ([]outbox.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbox.Notification), args.Error(1)
}

func (m *MockOutboxRepo) MarkSent(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id int64, attempts, maxAttempts int) error {
	args := m.Called(ctx, id, attempts, maxAttempts)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) ExpireSweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestDispatcher(rows *MockOutboxRepo, mailer *MockMailer) *Dispatcher {
	return NewDispatcher(rows, mailer, new(MockSweeper), nil, zap.NewNop(), time.Second)
}

func TestDrainOutbox_SendsAndMarks(t *testing.T) {
	rows := new(MockOutboxRepo)
	mailer := new(MockMailer)
	d := newTestDispatcher(rows, mailer)

	rows.On("PendingBatch", mock.Anything, outboxBatchSize).Return([]outbox.Notification{
		{ID: 1, Type: outbox.TypeBookingConfirmed, Title: "Booking confirmed", Body: "hi", Recipient: "guest@example.com"},
	}, nil)
	mailer.On("Configured").Return(true)
	mailer.On("Send", "guest@example.com", "Booking confirmed", "hi").Return(nil)
	rows.On("MarkSent", mock.Anything, int64(1), mock.Anything).Return(nil)

	d.drainOutbox(context.Background())

	rows.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestDrainOutbox_InAppOnlyRowsCompleteWithoutMail(t *testing.T) {
	rows := new(MockOutboxRepo)
	mailer := new(MockMailer)
	d := newTestDispatcher(rows, mailer)

	rows.On("PendingBatch", mock.Anything, outboxBatchSize).Return([]outbox.Notification{
		{ID: 2, Type: outbox.TypeBookingCreated, Recipient: ""},
	}, nil)
	rows.On("MarkSent", mock.Anything, int64(2), mock.Anything).Return(nil)

	d.drainOutbox(context.Background())

	rows.AssertExpectations(t)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrainOutbox_FailureBumpsAttempts(t *testing.T) {
	rows := new(MockOutboxRepo)
	mailer := new(MockMailer)
	d := newTestDispatcher(rows, mailer)

	rows.On("PendingBatch", mock.Anything, outboxBatchSize).Return([]outbox.Notification{
		{ID: 3, Recipient: "guest@example.com", Attempts: 1},
	}, nil)
	mailer.On("Configured").Return(true)
	mailer.On("Send", "guest@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	rows.On("MarkFailed", mock.Anything, int64(3), 2, maxSendAttempts).Return(nil)

	d.drainOutbox(context.Background())

	rows.AssertExpectations(t)
	rows.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliver_Outcomes(t *testing.T) {
	mailer := new(MockMailer)
	d := newTestDispatcher(new(MockOutboxRepo), mailer)

	// In-app-only rows are complete without touching the mailer.
	assert.True(t, d.deliver(outbox.Notification{ID: 4, Recipient: ""}))

	// Mail can't be sent without SMTP configured; the row must not loop
	// through retries forever.
	mailer.On("Configured").Return(false).Once()
	assert.True(t, d.deliver(outbox.Notification{ID: 5, Recipient: "guest@example.com"}))

	mailer.On("Configured").Return(true)
	mailer.On("Send", "guest@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	assert.False(t, d.deliver(outbox.Notification{ID: 6, Recipient: "guest@example.com"}))
}

func TestSweepCredits(t *testing.T) {
	sweeper := new(MockSweeper)
	d := NewDispatcher(new(MockOutboxRepo), new(MockMailer), sweeper, nil, zap.NewNop(), time.Second)

	sweeper.On("ExpireSweep", mock.Anything).Return(int64(2), nil)

	d.sweepCredits(context.Background())
	sweeper.AssertExpectations(t)
}
