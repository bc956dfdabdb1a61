// Package queue carries saga events over RabbitMQ: the gateway publishes one
// event per saga run and the audit consumer records the runs that stopped
// half way.
package queue

// SagaQueue is the durable queue all saga events are routed to.
const SagaQueue = "reservation.saga"

// SagaKind classifies the outcome of a saga run.
type SagaKind string

const (
	SagaCreated    SagaKind = "created"
	SagaCanceled   SagaKind = "canceled"
	SagaIncomplete SagaKind = "incomplete"
)

// SagaEvent describes one finished saga run.  For incomplete runs
// CompletedSteps lists the side effects already made in other services;
// nothing has undone them.
type SagaEvent struct {
	Kind           SagaKind `json:"kind"`
	Saga           string   `json:"saga"`
	Username       string   `json:"username"`
	ReservationUID string   `json:"reservation_uid,omitempty"`
	HotelUID       string   `json:"hotel_uid,omitempty"`
	PaymentUID     string   `json:"payment_uid,omitempty"`
	Price          *int     `json:"price,omitempty"`
	CompletedSteps []string `json:"completed_steps,omitempty"`
	FailedStep     string   `json:"failed_step,omitempty"`
	Error          string   `json:"error,omitempty"`
	TraceID        string   `json:"trace_id,omitempty"`
	OccurredAt     string   `json:"occurred_at"`
}
