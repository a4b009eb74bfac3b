package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer создает новый экземпляр продюсера Kafka
func NewKafkaProducer(cfg *config.AppConfig) (interfaces.TelemetryProducer, error) {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Broker),
		Topic:                  cfg.Kafka.Topic,
		Balancer:               &kafka.LeastBytes{},
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: writer}, nil
}

// Produce отправляет сообщение в Kafka
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// TelemetryPublisher публикует снимки телеметрии, ключ сообщения - идентификатор моста
type TelemetryPublisher struct {
	producer interfaces.TelemetryProducer
}

func NewTelemetryPublisher(producer interfaces.TelemetryProducer) *TelemetryPublisher {
	return &TelemetryPublisher{producer: producer}
}

func (p *TelemetryPublisher) Name() string { return "kafka" }

func (p *TelemetryPublisher) Publish(ctx context.Context, snapshot models.TelemetrySnapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize telemetry snapshot: %w", err)
	}
	return p.producer.Produce(ctx, []byte(snapshot.BridgeID), value)
}

func (p *TelemetryPublisher) Close() error {
	return p.producer.Close()
}
