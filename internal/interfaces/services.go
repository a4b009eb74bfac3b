package interfaces

import (
	"context"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"
)

// BridgeService - мост между сетевым потоком команд и приемником
type BridgeService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() *models.LinkStatus
	Telemetry() models.Telemetry
	UpdateChannels(channels []int) error
}

// TelemetrySink принимает снимки телеметрии (Kafka, БД, TCP uplink)
type TelemetrySink interface {
	Name() string
	Publish(ctx context.Context, snapshot models.TelemetrySnapshot) error
}
