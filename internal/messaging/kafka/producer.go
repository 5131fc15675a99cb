package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/domain"
)

// Producer представляет Kafka producer для публикации событий
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll // Wait for all in-sync replicas
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // обязательно для идемпотентного producer

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewProducerFrom(producer), nil
}

// NewProducerFrom оборачивает готовый SyncProducer (например, mocks.SyncProducer).
func NewProducerFrom(producer sarama.SyncProducer) *Producer {
	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

// PublishEvent публикует событие в Kafka
func (p *Producer) PublishEvent(topic, key string, event any, headers ...sarama.RecordHeader) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Headers:   headers,
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

// StatusPublisher публикует смены статусов заказов в один топик; ключ сообщения — ID заказа.
type StatusPublisher struct {
	producer *Producer
	topic    string
}

// NewStatusPublisher создаёт публикатор поверх producer.
func NewStatusPublisher(producer *Producer, topic string) *StatusPublisher {
	if topic == "" {
		topic = DefaultStatusTopic
	}
	return &StatusPublisher{producer: producer, topic: topic}
}

// PublishStatusChange отправляет событие. Пустой EventID заменяется сгенерированным UUID.
func (p *StatusPublisher) PublishStatusChange(ctx context.Context, change domain.StatusChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if change.EventID == "" {
		change.EventID = uuid.NewString()
	}

	event := NewStatusChangedEvent(change)
	if err := p.producer.PublishEvent(p.topic, change.OrderID, event,
		sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
		sarama.RecordHeader{Key: []byte(HeaderEventID), Value: []byte(event.EventID)},
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEventPublish, err)
	}
	return nil
}

var _ domain.StatusEventPublisher = (*StatusPublisher)(nil)
