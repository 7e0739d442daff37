package notify

import (
	"context"
	"time"
)

// Type identifies what happened.
type Type string

const (
	TypeRegistrationConfirmed Type = "registration.confirmed"
	TypeRegistrationCancelled Type = "registration.cancelled"
	TypeCertificateIssued     Type = "certificate.issued"
)

// Notification is the message carried through the broker.
type Notification struct {
	Type            Type      `json:"type"`
	RecipientEmail  string    `json:"recipient_email"`
	RecipientName   string    `json:"recipient_name"`
	EventID         uint64    `json:"event_id"`
	EventName       string    `json:"event_name"`
	EventStart      time.Time `json:"event_start"`
	CertificateCode string    `json:"certificate_code,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Notifier hands notifications off for asynchronous delivery.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
