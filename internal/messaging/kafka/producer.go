package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer публикует события магазина в Kafka. Все отправки синхронные:
// вызывающая сторона узнаёт об ошибке сразу и сама решает, критична ли она.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// producerConfig настраивает идемпотентного producer'а: подтверждение от
// всех ISR, повторные попытки и snappy-сжатие полезной нагрузки.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "storefront"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // требование идемпотентного режима
	return config
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}, nil
}

// PublishEvent сериализует событие в JSON и отправляет его в указанный топик.
func (p *Producer) PublishEvent(topic string, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now(),
	})
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// PublishOrderEvent публикует событие заказа в топик заказов,
// ключуя по order_id для сохранения порядка внутри заказа
func (p *Producer) PublishOrderEvent(event *OrderEvent) error {
	return p.PublishEvent(TopicOrderEvents, event.OrderID, event)
}

// PublishProductEvent публикует событие каталога, ключуя по product_id
func (p *Producer) PublishProductEvent(event *ProductEvent) error {
	return p.PublishEvent(TopicCatalogEvents, event.ProductID, event)
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
