package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CheckoutCreated    = "CheckoutCreated"
	CheckoutPaid       = "CheckoutPaid"
	OrderFinalized     = "OrderFinalized"
	OrderStatusUpdated = "OrderStatusUpdated"
)

const envelopeVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type CheckoutCreatedPayload struct {
	CheckoutID string  `json:"checkout_id"`
	UserID     string  `json:"user_id"`
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

type CheckoutPaidPayload struct {
	CheckoutID    string    `json:"checkout_id"`
	PaymentStatus string    `json:"payment_status"`
	PaidAt        time.Time `json:"paid_at"`
}

type OrderFinalizedPayload struct {
	OrderID    string  `json:"order_id"`
	CheckoutID string  `json:"checkout_id"`
	UserID     string  `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
}

type OrderStatusUpdatedPayload struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	IsDelivered bool   `json:"is_delivered"`
}

// NewEnvelope wraps payload for eventType. correlationID is also the partition key,
// so all events about one checkout or order stay in order.
func NewEnvelope(producer, eventType, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// UnwrapPayload decodes the payload of env into T.
func UnwrapPayload[T any](env Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(env.Payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
