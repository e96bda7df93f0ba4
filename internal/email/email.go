package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender turns booking events into guest notifications. Delivery is a log
// line; there is no mail transport.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.log.WithField("booking_id", event.BookingID).Warn("booking event without email, not notifying")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"to":         event.Email,
		"booking_id": event.BookingID,
		"type":       event.Type,
	}).Info(Subject(event))
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s confirmed: %s room, %s to %s, total %d",
			event.BookingID, event.RoomType, event.CheckIn, event.CheckOut, event.TotalPrice)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled", event.BookingID)
	default:
		return fmt.Sprintf("Booking %s updated (%s)", event.BookingID, event.Type)
	}
}
