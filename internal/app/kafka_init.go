package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// initKafkaProducer поднимает producer по списку брокеров через запятую.
// Пустой список или ошибка подключения дают nil: магазин работает без
// событий, о невозможности подключиться остаётся предупреждение в логе.
func initKafkaProducer(brokers string, logger *log.Entry) *kafka.Producer {
	if brokers == "" {
		return nil
	}

	brokerList := strings.Split(brokers, ",")
	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer
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
