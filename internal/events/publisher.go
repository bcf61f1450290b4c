package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Subjects for catalog events
const (
	SubjectProductCreated  = "catalog.product.created"
	SubjectProductDeleted  = "catalog.product.deleted"
	SubjectImportCompleted = "catalog.import.completed"
)

// Event is the envelope published for every catalog event
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Publisher publishes catalog events to NATS for the audit trail. A nil
// *Publisher is valid and publishes nothing, so callers never need to
// guard against a missing NATS configuration.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at natsURL
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// PublishProductCreated publishes a catalog.product.created event
func (p *Publisher) PublishProductCreated(ctx context.Context, product *models.Product) {
	p.publish(SubjectProductCreated, map[string]interface{}{
		"productId": product.ID,
		"handle":    product.Handle,
		"title":     product.Title,
	})
}

// PublishProductDeleted publishes a catalog.product.deleted event
func (p *Publisher) PublishProductDeleted(ctx context.Context, productID uuid.UUID) {
	p.publish(SubjectProductDeleted, map[string]interface{}{
		"productId": productID,
	})
}

// PublishImportCompleted publishes a catalog.import.completed event with
// the run's summary counts
func (p *Publisher) PublishImportCompleted(ctx context.Context, result *models.ImportResult) {
	p.publish(SubjectImportCompleted, result)
}

func (p *Publisher) publish(subject string, data interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := Event{
		ID:        uuid.New(),
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Warn("failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.WithField("subject", subject).WithError(err).Warn("failed to publish event")
	}
}
