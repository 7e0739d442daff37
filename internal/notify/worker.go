package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/metrics"
)

// Consumer streams raw message bodies to a handler until ctx ends.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

// Worker turns notifications into e-mails. It is a suture service.
type Worker struct {
	consumer Consumer
	mailer   Mailer
}

// NewWorker creates a Worker.
func NewWorker(consumer Consumer, mailer Mailer) *Worker {
	return &Worker{consumer: consumer, mailer: mailer}
}

// Serve consumes until ctx is cancelled. Returning an error lets the supervisor restart it.
func (w *Worker) Serve(ctx context.Context) error {
	logging.Info().Msg("notification worker started")
	return w.consumer.Consume(ctx, w.Handle)
}

func (w *Worker) String() string {
	return "notification-worker"
}

// Handle processes one message body.
func (w *Worker) Handle(_ context.Context, body []byte) error {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		// Malformed messages are acked; retrying will not fix them.
		logging.Error().Err(err).Str("body", string(body)).Msg("failed to decode notification")
		metrics.NotificationsDelivered.WithLabelValues("unknown", "malformed").Inc()
		return nil
	}

	if n.RecipientEmail == "" {
		metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "skipped").Inc()
		return nil
	}

	subject, text, ok := Compose(n)
	if !ok {
		logging.Warn().Str("type", string(n.Type)).Msg("unknown notification type")
		metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "skipped").Inc()
		return nil
	}

	if err := w.mailer.Send(n.RecipientEmail, subject, text); err != nil {
		metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "failed").Inc()
		return err
	}

	metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "sent").Inc()
	return nil
}

// Compose renders the e-mail subject and body for n.
func Compose(n Notification) (subject, body string, ok bool) {
	start := n.EventStart.Format("02/01/2006 15:04")

	switch n.Type {
	case TypeRegistrationConfirmed:
		return "Inscrição confirmada: " + n.EventName,
			fmt.Sprintf("Olá, %s!\n\nSua inscrição no evento \"%s\" está confirmada.\nInício: %s.\n\nAté lá!", n.RecipientName, n.EventName, start),
			true
	case TypeRegistrationCancelled:
		return "Inscrição cancelada: " + n.EventName,
			fmt.Sprintf("Olá, %s!\n\nSua inscrição no evento \"%s\" foi cancelada.", n.RecipientName, n.EventName),
			true
	case TypeCertificateIssued:
		return "Certificado disponível: " + n.EventName,
			fmt.Sprintf("Olá, %s!\n\nSeu certificado de participação no evento \"%s\" foi emitido.\nCódigo de verificação: %s.", n.RecipientName, n.EventName, n.CertificateCode),
			true
	default:
		return "", "", false
	}
}
