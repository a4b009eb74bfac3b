package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/stretchr/testify/require"
)

type stubBridge struct {
	channels []int
	err      error
}

func (s *stubBridge) Start(ctx context.Context) error { return nil }
func (s *stubBridge) Stop(ctx context.Context) error  { return nil }
func (s *stubBridge) Status() *models.LinkStatus {
	return &models.LinkStatus{SerialPort: "/dev/ttyUSB0", Channels: s.channels}
}
func (s *stubBridge) Telemetry() models.Telemetry { return models.Telemetry{VoltageRaw: 1200} }
func (s *stubBridge) UpdateChannels(channels []int) error {
	if s.err != nil {
		return s.err
	}
	s.channels = channels
	return nil
}

type stubRepo struct {
	limit int
}

func (r *stubRepo) Create(ctx context.Context, sample *entities.TelemetrySample) error { return nil }
func (r *stubRepo) GetRecent(ctx context.Context, limit int) ([]entities.TelemetrySample, error) {
	r.limit = limit
	return []entities.TelemetrySample{{ID: 1, VoltageRaw: 1200}}, nil
}

func TestUsecase_DelegatesToBridge(t *testing.T) {
	bridge := &stubBridge{}
	u := NewUsecases(bridge, nil)

	require.Equal(t, 1200, u.GetTelemetry().VoltageRaw)
	require.NoError(t, u.UpdateChannels([]int{1, 2}))
	require.Equal(t, []int{1, 2}, u.GetStatus().Channels)

	bridge.err = errors.New("rejected")
	require.EqualError(t, u.UpdateChannels(nil), "rejected")
}

func TestUsecase_HistoryWithoutRepository(t *testing.T) {
	u := NewUsecases(&stubBridge{}, nil)

	samples, err := u.GetTelemetryHistory(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, samples)
	require.Empty(t, samples)
}

func TestUsecase_HistoryFromRepository(t *testing.T) {
	repo := &stubRepo{}
	u := NewUsecases(&stubBridge{}, repo)

	samples, err := u.GetTelemetryHistory(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, 25, repo.limit)
}
