// Package events publishes activity events to Kafka. Publishing is
// fire-and-forget: a broker problem is logged and never surfaces to the
// request that triggered the event.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	EventUserRegistered = "user.registered"
	EventPostCreated    = "post.created"
	EventCommentCreated = "comment.created"
)

type Event struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userId"`
	ObjectID uint      `json:"objectId,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher connects a sync producer to the given brokers. With no
// brokers configured it returns a disabled publisher whose Publish is a
// no-op, so callers never need to nil-check.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{topic: topic, logger: logger}
	if len(brokers) == 0 {
		return p, nil
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "social-service"

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	p.producer = producer
	return p, nil
}

func (p *Publisher) Publish(eventType, userID string, objectID uint) {
	if p.producer == nil {
		return
	}
	event := Event{
		Type:     eventType,
		UserID:   userID,
		ObjectID: objectID,
		At:       time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("event encode failed", "type", eventType, "error", err)
		return
	}
	if _, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(data),
	}); err != nil {
		p.logger.Error("event publish failed", "type", eventType, "error", err)
	}
}

func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
