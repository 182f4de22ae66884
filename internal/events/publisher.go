package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for merchandising events
const (
	SubjectVariantsAdded       = "catalog.product.variants.added"
	SubjectVariantUpdated      = "catalog.product.variant.updated"
	SubjectDiscountCreated     = "promotion.discount.created"
	SubjectDiscountCodeCreated = "promotion.discount.code.created"
)

// Event is the envelope published on every subject.
type Event struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher publishes merchandising events to NATS. Publishing is
// best-effort: callers fire it asynchronously and only log failures.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS; an empty URL falls back to the local default.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("merchandising-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

func (p *Publisher) publish(subject string, payload any) error {
	data, err := json.Marshal(Event{
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

// PublishVariantsAdded publishes a variants-added event for a product.
func (p *Publisher) PublishVariantsAdded(productID string, count int, stockQuantity int) error {
	return p.publish(SubjectVariantsAdded, map[string]any{
		"productId":     productID,
		"variantCount":  count,
		"stockQuantity": stockQuantity,
	})
}

// PublishVariantUpdated publishes a variant-updated event.
func (p *Publisher) PublishVariantUpdated(productID, variantID string) error {
	return p.publish(SubjectVariantUpdated, map[string]any{
		"productId": productID,
		"variantId": variantID,
	})
}

// PublishDiscountCreated publishes a discount-created event.
func (p *Publisher) PublishDiscountCreated(discountID, name string, isPercentage bool, value string) error {
	return p.publish(SubjectDiscountCreated, map[string]any{
		"discountId":   discountID,
		"name":         name,
		"isPercentage": isPercentage,
		"value":        value,
	})
}

// PublishDiscountCodeCreated publishes a discount-code-created event.
func (p *Publisher) PublishDiscountCodeCreated(discountID, code string) error {
	return p.publish(SubjectDiscountCodeCreated, map[string]any{
		"discountId": discountID,
		"code":       code,
	})
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
