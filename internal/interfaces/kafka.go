package interfaces

import (
	"context"
)

// TelemetryProducer публикует снимки телеметрии в брокер сообщений.
// key - идентификатор моста, чтобы снимки одного моста попадали в одну партицию.
type TelemetryProducer interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}
