package telemetry_sample

import (
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"gorm.io/gorm"
)

type TelemetrySampleRepositoryImpl struct {
	db *gorm.DB
}

func NewTelemetrySampleRepository(db *gorm.DB) interfaces.TelemetryRepository {
	return &TelemetrySampleRepositoryImpl{db: db}
}
