package interfaces

import (
	"context"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	GetTelemetry() models.Telemetry
	UpdateChannels(channels []int) error
	GetStatus() *models.LinkStatus
	GetTelemetryHistory(ctx context.Context, limit int) ([]entities.TelemetrySample, error)
}
