package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelStore_DefaultVector(t *testing.T) {
	s := NewChannelStore()
	ch := s.Get()

	require.Len(t, ch, models.ChannelCount)
	for i, v := range ch {
		if i == 5 {
			require.Equal(t, 1500, v)
			continue
		}
		require.Equal(t, 1000, v, "channel %d", i)
	}
}

func TestChannelStore_ReplaceRejectsWrongLength(t *testing.T) {
	s := NewChannelStore()
	before := s.Get()

	for _, n := range []int{0, 1, 15, 17, 32} {
		err := s.Replace(make([]int, n))
		require.Error(t, err)
		require.True(t, errors.Is(err, apperrors.ErrInvalidChannelCount))
		require.Equal(t, before, s.Get())
	}
}

func TestChannelStore_GetReturnsCopy(t *testing.T) {
	s := NewChannelStore()
	input := make([]int, models.ChannelCount)
	for i := range input {
		input[i] = 1500
	}
	require.NoError(t, s.Replace(input))

	input[0] = 2000
	got := s.Get()
	require.Equal(t, 1500, got[0])

	got[1] = 1000
	require.Equal(t, 1500, s.Get()[1])
}

func TestChannelStore_ConcurrentReplace(t *testing.T) {
	s := NewChannelStore()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			vec := make([]int, models.ChannelCount)
			for i := range vec {
				vec[i] = v
			}
			for n := 0; n < 100; n++ {
				_ = s.Replace(vec)
				got := s.Get()
				// вектор никогда не бывает смешанным
				for _, x := range got[1:] {
					assert.Equal(t, got[0], x)
				}
			}
		}(1000 + w*100)
	}
	wg.Wait()
}

func TestTelemetryStore_SetVoltage(t *testing.T) {
	s := NewTelemetryStore()
	require.False(t, s.Get().HasReading())

	pct := 80
	s.Set(models.Telemetry{BatteryPercent: &pct})

	now := time.Now()
	got := s.SetVoltage(1234, now)
	require.Equal(t, 1234, got.VoltageRaw)
	require.InDelta(t, 12.34, got.VoltageV, 1e-9)
	require.True(t, got.HasReading())
	require.NotNil(t, got.BatteryPercent)
	require.Equal(t, 80, *got.BatteryPercent)
	require.Equal(t, got, s.Get())
}
