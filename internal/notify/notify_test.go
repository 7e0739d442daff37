package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	mu     sync.Mutex
	bodies [][]byte
	err    error
	calls  int
}

func (b *fakeBroker) Publish(_ context.Context, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.bodies = append(b.bodies, body)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(to, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type fakeConsumer struct {
	bodies [][]byte
}

func (c *fakeConsumer) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	for _, b := range c.bodies {
		if err := handler(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func TestPublisher_EncodesNotification(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker, DefaultPublisherConfig())

	err := p.Notify(context.Background(), Notification{
		Type:           TypeRegistrationConfirmed,
		RecipientEmail: "ana@uni.br",
		EventName:      "Semana de TI",
	})
	require.NoError(t, err)
	require.Len(t, broker.bodies, 1)

	var decoded Notification
	require.NoError(t, json.Unmarshal(broker.bodies[0], &decoded))
	assert.Equal(t, TypeRegistrationConfirmed, decoded.Type)
	assert.Equal(t, "ana@uni.br", decoded.RecipientEmail)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestPublisher_BreakerOpensAfterFailures(t *testing.T) {
	broker := &fakeBroker{err: errors.New("connection refused")}
	p := NewPublisher(broker, PublisherConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		PublishTimeout:   time.Second,
	})

	n := Notification{Type: TypeCertificateIssued}
	assert.Error(t, p.Notify(context.Background(), n))
	assert.Error(t, p.Notify(context.Background(), n))
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Notify(context.Background(), n)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, broker.calls)
}

func TestWorker_DeliversKnownTypes(t *testing.T) {
	confirmed, err := json.Marshal(Notification{
		Type: TypeRegistrationConfirmed, RecipientEmail: "ana@uni.br", RecipientName: "Ana", EventName: "Semana de TI",
	})
	require.NoError(t, err)
	unknown, err := json.Marshal(Notification{Type: "event.exploded", RecipientEmail: "ana@uni.br"})
	require.NoError(t, err)
	noRecipient, err := json.Marshal(Notification{Type: TypeCertificateIssued})
	require.NoError(t, err)

	mailer := &fakeMailer{}
	w := NewWorker(&fakeConsumer{bodies: [][]byte{confirmed, []byte("{not json"), unknown, noRecipient}}, mailer)

	require.NoError(t, w.Serve(context.Background()))
	assert.Equal(t, []string{"ana@uni.br|Inscrição confirmada: Semana de TI"}, mailer.sent)
}

func TestWorker_MailerFailureIsReturned(t *testing.T) {
	body, err := json.Marshal(Notification{Type: TypeRegistrationCancelled, RecipientEmail: "ana@uni.br"})
	require.NoError(t, err)

	w := NewWorker(&fakeConsumer{}, &fakeMailer{err: errors.New("smtp down")})
	assert.Error(t, w.Handle(context.Background(), body))
}

func TestCompose(t *testing.T) {
	subject, body, ok := Compose(Notification{
		Type:            TypeCertificateIssued,
		RecipientName:   "Ana",
		EventName:       "Congresso",
		CertificateCode: "ABCD-1234-EF56",
	})
	require.True(t, ok)
	assert.Contains(t, subject, "Congresso")
	assert.Contains(t, body, "ABCD-1234-EF56")

	_, _, ok = Compose(Notification{Type: "other"})
	assert.False(t, ok)
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("no-reply@uni.br", "ana@uni.br", "Olá", "corpo")
	assert.Contains(t, msg, "To: ana@uni.br\r\n")
	assert.Contains(t, msg, "charset=\"UTF-8\"")
	assert.True(t, len(msg) > 0 && msg[len(msg)-5:] == "corpo")
}

func TestRabbitClient_DialTimeoutBoundsHandshake(t *testing.T) {
	// accepts TCP but never speaks AMQP
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			conn.Close()
		}
	}()

	client := NewRabbitClient("amqp://guest:guest@"+ln.Addr().String()+"/", "ex", "q", 200*time.Millisecond)

	started := time.Now()
	err = client.Connect()
	require.Error(t, err)
	assert.Less(t, time.Since(started), 5*time.Second)
}
