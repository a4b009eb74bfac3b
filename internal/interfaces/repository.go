package interfaces

import (
	"context"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
)

// TelemetryRepository определяет контракт для истории телеметрии в БД
type TelemetryRepository interface {
	Create(ctx context.Context, sample *entities.TelemetrySample) error
	GetRecent(ctx context.Context, limit int) ([]entities.TelemetrySample, error)
}
