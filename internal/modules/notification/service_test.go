package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"resortdesk/internal/domain"
	outbox "resortdesk/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOutboxWriter struct {
	mock.Mock
}

func (m *MockOutboxWriter) Create(ctx context.Context, n *outbox.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockOutboxWriter) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]outbox.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbox.Notification), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func userID(v int64) *int64 { return &v }

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         7,
		ResourceID: 3,
		UserID:     userID(42),
		CheckIn:    time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Status:     domain.BookingPending,
	}
}

func TestNotifyBookingCreated_WritesOutboxRowWithRecipient(t *testing.T) {
	rows := new(MockOutboxWriter)
	users := new(MockUserReader)
	svc := NewService(rows, users, nil, nil)

	users.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Email: "guest@example.com"}, nil)
	rows.On("Create", mock.Anything, mock.MatchedBy(func(n *outbox.Notification) bool {
		return n.Type == outbox.TypeBookingCreated &&
			n.Recipient == "guest@example.com" &&
			n.Status == outbox.StatusPending &&
			n.UserID != nil && *n.UserID == 42
	})).Return(nil)

	err := svc.NotifyBookingCreated(context.Background(), testBooking())
	assert.NoError(t, err)
	rows.AssertExpectations(t)
}

func TestNotifyBookingCancelled_EncodesAmounts(t *testing.T) {
	rows := new(MockOutboxWriter)
	users := new(MockUserReader)
	svc := NewService(rows, users, nil, nil)

	users.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Email: "guest@example.com"}, nil)

	var captured *outbox.Notification
	rows.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*outbox.Notification)
		}).Return(nil)

	err := svc.NotifyBookingCancelled(context.Background(), testBooking(), "storm", 150, 50)
	assert.NoError(t, err)

	assert.Equal(t, outbox.TypeBookingCancelled, captured.Type)
	assert.Contains(t, captured.Body, "150.00")
	assert.Contains(t, captured.Body, "50.00")

	var data outbox.Data
	assert.NoError(t, json.Unmarshal([]byte(captured.Data), &data))
	assert.Equal(t, 150.0, *data.RefundAmount)
	assert.Equal(t, 50.0, *data.CreditAmount)
	assert.Equal(t, "storm", data.Extra["reason"])
}

func TestEnqueue_RecipientLookupFailureIsNonFatal(t *testing.T) {
	rows := new(MockOutboxWriter)
	users := new(MockUserReader)
	svc := NewService(rows, users, nil, nil)

	users.On("GetByID", mock.Anything, int64(42)).Return(nil, errors.New("db down"))
	rows.On("Create", mock.Anything, mock.MatchedBy(func(n *outbox.Notification) bool {
		return n.Recipient == ""
	})).Return(nil)

	err := svc.NotifyBookingConfirmed(context.Background(), testBooking())
	assert.NoError(t, err)
	rows.AssertExpectations(t)
}

func TestNotifyBookingStatus_Titles(t *testing.T) {
	rows := new(MockOutboxWriter)
	users := new(MockUserReader)
	svc := NewService(rows, users, nil, nil)

	users.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Email: "guest@example.com"}, nil)

	var captured *outbox.Notification
	rows.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*outbox.Notification)
		}).Return(nil)

	assert.NoError(t, svc.NotifyBookingStatus(context.Background(), testBooking(), outbox.TypeBookingNoShow))
	assert.Equal(t, "Marked as no-show", captured.Title)
	assert.Equal(t, outbox.TypeBookingNoShow, captured.Type)
}

func TestListMyNotifications_ClampsPaging(t *testing.T) {
	rows := new(MockOutboxWriter)
	svc := NewService(rows, new(MockUserReader), nil, nil)

	rows.On("ListByUser", mock.Anything, int64(42), 20, 0).Return([]outbox.Notification{}, nil)

	_, err := svc.ListMyNotifications(context.Background(), 42, -5, -1)
	assert.NoError(t, err)
	rows.AssertExpectations(t)
}
