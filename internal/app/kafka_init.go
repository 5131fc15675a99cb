package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/domain"
	"github.com/vladislavdragonenkov/contract/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/contract/internal/service/orders"
)

// initKafkaProducer создаёт producer, если список брокеров не пуст.
// Пустой список даёт nil, nil: сервис работает без публикации событий.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// newStatusPublisher выбирает публикатор событий о смене статуса.
func newStatusPublisher(cfg Config, producer *kafka.Producer, logger *log.Entry) domain.StatusEventPublisher {
	if producer == nil {
		return domain.NopPublisher{}
	}

	retry := orders.DefaultRetryConfig()
	retry.MaxAttempts = cfg.PublishMaxAttempts
	return orders.NewRetryingPublisher(
		kafka.NewStatusPublisher(producer, cfg.KafkaStatusTopic),
		retry,
		logger.WithField("layer", "publisher"),
	)
}

// closeKafkaProducer закрывает producer, если он был создан.
func closeKafkaProducer(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
