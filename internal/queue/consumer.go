package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer drains SagaQueue and appends every incomplete saga to a
// reconciliation log for operators.  Completed sagas are acknowledged and
// dropped.
type AuditConsumer struct {
	url  string
	path string
	log  *slog.Logger
}

func NewAuditConsumer(url, path string, log *slog.Logger) *AuditConsumer {
	return &AuditConsumer{url: url, path: path, log: log}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff whenever the broker connection drops.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.url)
		if err != nil {
			a.log.Warn("audit consumer dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.Warn("audit consumer loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.log.Warn("audit consumer qos failed", "error", err)
	}
	if _, err := ch.QueueDeclare(SagaQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SagaQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := a.handle(d.Body); err != nil {
				a.log.Error("audit consumer handle failed", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AuditConsumer) handle(body []byte) error {
	var ev SagaEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Kind != SagaIncomplete {
		return nil
	}
	return appendLine(a.path, FormatAuditLine(ev))
}

// FormatAuditLine renders an event as one line of the reconciliation log.
func FormatAuditLine(ev SagaEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s saga incomplete | user=%q | failed_step=%s", ev.OccurredAt, ev.Saga, ev.Username, ev.FailedStep)
	if ev.ReservationUID != "" {
		fmt.Fprintf(&b, " | reservation=%s", ev.ReservationUID)
	}
	if ev.HotelUID != "" {
		fmt.Fprintf(&b, " | hotel=%s", ev.HotelUID)
	}
	if ev.PaymentUID != "" {
		fmt.Fprintf(&b, " | payment=%s", ev.PaymentUID)
	}
	if ev.Price != nil {
		fmt.Fprintf(&b, " | price=%d", *ev.Price)
	}
	fmt.Fprintf(&b, " | done=[%s]", strings.Join(ev.CompletedSteps, ","))
	if ev.Error != "" {
		fmt.Fprintf(&b, " | error=%q", ev.Error)
	}
	if ev.TraceID != "" {
		fmt.Fprintf(&b, " | trace=%s", ev.TraceID)
	}
	b.WriteByte('\n')
	return b.String()
}

func appendLine(path, line string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
