package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
)

// ChannelStore хранит текущий вектор каналов. Вектор заменяется только целиком.
type ChannelStore struct {
	mu       sync.RWMutex
	channels []int
}

func NewChannelStore() *ChannelStore {
	return &ChannelStore{channels: models.DefaultChannels()}
}

// Get возвращает копию текущего вектора
func (s *ChannelStore) Get() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, len(s.channels))
	copy(out, s.channels)
	return out
}

// Replace устанавливает новый вектор. При неверной длине прежний вектор сохраняется.
func (s *ChannelStore) Replace(channels []int) error {
	if len(channels) != models.ChannelCount {
		return fmt.Errorf("%w: got %d", apperrors.ErrInvalidChannelCount, len(channels))
	}
	next := make([]int, len(channels))
	copy(next, channels)

	s.mu.Lock()
	s.channels = next
	s.mu.Unlock()
	return nil
}

// TelemetryStore хранит последние показания приемника
type TelemetryStore struct {
	mu    sync.RWMutex
	value models.Telemetry
}

func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{}
}

func (s *TelemetryStore) Get() models.Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// SetVoltage записывает новое напряжение; остальные поля сохраняют прежние значения
func (s *TelemetryStore) SetVoltage(raw int, at time.Time) models.Telemetry {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.value
	next.VoltageRaw = raw
	next.VoltageV = float64(raw) / 100
	next.UpdatedAt = at
	s.value = next
	return next
}

func (s *TelemetryStore) Set(t models.Telemetry) {
	s.mu.Lock()
	s.value = t
	s.mu.Unlock()
}
