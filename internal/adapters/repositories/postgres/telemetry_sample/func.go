package telemetry_sample

import (
	"context"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
)

func (r *TelemetrySampleRepositoryImpl) Create(ctx context.Context, sample *entities.TelemetrySample) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

// GetRecent возвращает последние limit записей, новые первыми
func (r *TelemetrySampleRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]entities.TelemetrySample, error) {
	var samples []entities.TelemetrySample
	err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}
