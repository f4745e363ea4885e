package notification

import (
	"context"
	"fmt"
	"time"

	"resortdesk/internal/domain"
	outbox "resortdesk/internal/notification"
)

// Service turns booking lifecycle events into outbox rows and, when the
// guest is connected, an immediate websocket push. Email delivery happens
// later when the worker drains the outbox, so callers never wait on SMTP.
type Service struct {
	rows    outboxWriter
	users   userReader
	hub     *Hub
	loggerf func(format string, args ...interface{})
}

func NewService(rows outboxWriter, users userReader, hub *Hub, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{rows: rows, users: users, hub: hub, loggerf: loggerf}
}

type pushMessage struct {
	Type  string       `json:"type"`
	Title string       `json:"title"`
	Body  string       `json:"body"`
	Data  *outbox.Data `json:"data,omitempty"`
}

func (s *Service) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	body := fmt.Sprintf("Your booking #%d from %s to %s is awaiting payment.",
		b.ID, fmtDate(b.CheckIn), fmtDate(b.CheckOut))
	if b.Status == domain.BookingConfirmed {
		body = fmt.Sprintf("Your booking #%d from %s to %s is confirmed.",
			b.ID, fmtDate(b.CheckIn), fmtDate(b.CheckOut))
	}
	return s.enqueue(ctx, b.UserID, outbox.TypeBookingCreated, "Booking received", body, bookingData(b))
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error {
	body := fmt.Sprintf("Payment received. Booking #%d from %s to %s is confirmed.",
		b.ID, fmtDate(b.CheckIn), fmtDate(b.CheckOut))
	return s.enqueue(ctx, b.UserID, outbox.TypeBookingConfirmed, "Booking confirmed", body, bookingData(b))
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, reason string, refund, credit float64) error {
	body := fmt.Sprintf("Booking #%d has been cancelled.", b.ID)
	if refund > 0 {
		body += fmt.Sprintf(" A refund of %.2f is on its way.", refund)
	}
	if credit > 0 {
		body += fmt.Sprintf(" %.2f has been added to your account credit.", credit)
	}

	data := bookingData(b)
	if refund > 0 {
		data.RefundAmount = &refund
	}
	if credit > 0 {
		data.CreditAmount = &credit
	}
	if reason != "" {
		data.Extra = map[string]interface{}{"reason": reason}
	}
	return s.enqueue(ctx, b.UserID, outbox.TypeBookingCancelled, "Booking cancelled", body, data)
}

func (s *Service) NotifyBookingModified(ctx context.Context, b *domain.Booking, priceDelta float64, newPaymentRequired bool) error {
	body := fmt.Sprintf("Booking #%d has been moved to %s through %s.",
		b.ID, fmtDate(b.CheckIn), fmtDate(b.CheckOut))
	switch {
	case newPaymentRequired:
		body += fmt.Sprintf(" An additional payment of %.2f is required.", priceDelta)
	case priceDelta < 0:
		body += fmt.Sprintf(" %.2f will be refunded.", -priceDelta)
	}

	data := bookingData(b)
	data.Extra = map[string]interface{}{
		"price_delta":          priceDelta,
		"new_payment_required": newPaymentRequired,
	}
	return s.enqueue(ctx, b.UserID, outbox.TypeBookingModified, "Booking updated", body, data)
}

func (s *Service) NotifyBookingStatus(ctx context.Context, b *domain.Booking, eventType string) error {
	var title, body string
	switch eventType {
	case outbox.TypeBookingCheckedIn:
		title = "Checked in"
		body = fmt.Sprintf("Welcome! Booking #%d is checked in.", b.ID)
	case outbox.TypeBookingCheckedOut:
		title = "Checked out"
		body = fmt.Sprintf("Booking #%d is checked out. Thanks for staying with us.", b.ID)
	case outbox.TypeBookingNoShow:
		title = "Marked as no-show"
		body = fmt.Sprintf("Booking #%d was marked as a no-show.", b.ID)
	default:
		title = "Booking update"
		body = fmt.Sprintf("Booking #%d status changed.", b.ID)
	}
	return s.enqueue(ctx, b.UserID, eventType, title, body, bookingData(b))
}

func (s *Service) ListMyNotifications(ctx context.Context, userID int64, limit, offset int) ([]outbox.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.rows.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) enqueue(ctx context.Context, userID *int64, eventType, title, body string, data *outbox.Data) error {
	n := &outbox.Notification{
		UserID: userID,
		Type:   eventType,
		Title:  title,
		Body:   body,
		Data:   data.Encode(),
		Status: outbox.StatusPending,
	}

	if userID != nil {
		user, err := s.users.GetByID(ctx, *userID)
		if err != nil {
			s.loggerf("level=warn msg=recipient lookup failed user_id=%d err=%v", *userID, err)
		} else {
			n.Recipient = user.Email
		}
	}

	if err := s.rows.Create(ctx, n); err != nil {
		return err
	}

	if userID != nil && s.hub != nil && s.hub.IsOnline(*userID) {
		s.hub.SendToUser(*userID, pushMessage{Type: eventType, Title: title, Body: body, Data: data})
	}
	return nil
}

func bookingData(b *domain.Booking) *outbox.Data {
	return &outbox.Data{BookingID: &b.ID, ResourceID: &b.ResourceID}
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}
