package usecases

import (
	"context"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
)

type Usecase struct {
	bridge interfaces.BridgeService
	repo   interfaces.TelemetryRepository
}

func NewUsecase(bridge interfaces.BridgeService, repo interfaces.TelemetryRepository) interfaces.Usecases {
	return &Usecase{
		bridge: bridge,
		repo:   repo,
	}
}

func (u *Usecase) GetTelemetry() models.Telemetry {
	return u.bridge.Telemetry()
}

func (u *Usecase) UpdateChannels(channels []int) error {
	return u.bridge.UpdateChannels(channels)
}

func (u *Usecase) GetStatus() *models.LinkStatus {
	return u.bridge.Status()
}

// GetTelemetryHistory возвращает пустой список, если история отключена
func (u *Usecase) GetTelemetryHistory(ctx context.Context, limit int) ([]entities.TelemetrySample, error) {
	if u.repo == nil {
		return []entities.TelemetrySample{}, nil
	}
	return u.repo.GetRecent(ctx, limit)
}
