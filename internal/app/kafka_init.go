package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/messaging/kafka"
)

// splitBrokers разбирает список brokers из конфигурации,
// отбрасывая пустые элементы и лишние пробелы.
func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if broker := strings.TrimSpace(part); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// initKafkaProducer создаёт producer, если в конфигурации заданы brokers.
// Kafka опциональна: при ошибке сервис продолжает работать без неё,
// outbox копится в хранилище.
func initKafkaProducer(rawBrokers string, logger *log.Entry) (*kafka.Producer, error) {
	brokers := splitBrokers(rawBrokers)
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

// closeKafka закрывает producer, если он был создан.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}
