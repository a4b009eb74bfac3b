package telemetry_service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/services/state"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu        sync.Mutex
	name      string
	err       error
	snapshots []models.TelemetrySnapshot
	closed    bool
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Publish(ctx context.Context, snapshot models.TelemetrySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

type memoryRepo struct {
	samples []entities.TelemetrySample
}

func (r *memoryRepo) Create(ctx context.Context, sample *entities.TelemetrySample) error {
	r.samples = append(r.samples, *sample)
	return nil
}

func (r *memoryRepo) GetRecent(ctx context.Context, limit int) ([]entities.TelemetrySample, error) {
	return r.samples, nil
}

func newReporter(store *state.TelemetryStore, sinks ...interfaces.TelemetrySink) *Reporter {
	return NewReporter(10*time.Millisecond, store, func() string { return "session-1" }, "/dev/ttyUSB0", sinks, nil, logging.NewNopLogger())
}

func TestReporter_SkipsWithoutReading(t *testing.T) {
	sink := &memorySink{name: "mem"}
	r := newReporter(state.NewTelemetryStore(), sink)

	require.Zero(t, r.Report(context.Background(), time.Now()))
	require.Zero(t, sink.count())
}

func TestReporter_FansOutAndSurvivesFailures(t *testing.T) {
	store := state.NewTelemetryStore()
	store.SetVoltage(1180, time.Now())

	failing := &memorySink{name: "broken", err: errors.New("boom")}
	ok := &memorySink{name: "mem"}
	r := newReporter(store, failing, ok)

	now := time.Now()
	require.Equal(t, 1, r.Report(context.Background(), now))
	require.Equal(t, 1, ok.count())

	got := ok.snapshots[0]
	require.Equal(t, r.BridgeID(), got.BridgeID)
	require.Equal(t, "session-1", got.SessionID)
	require.Equal(t, "/dev/ttyUSB0", got.Port)
	require.Equal(t, 1180, got.Telemetry.VoltageRaw)
	require.True(t, got.Timestamp.Equal(now))
}

func TestReporter_StartStop(t *testing.T) {
	store := state.NewTelemetryStore()
	store.SetVoltage(1200, time.Now())
	sink := &memorySink{name: "mem"}
	r := newReporter(store, sink)

	r.Start()
	require.Eventually(t, func() bool { return sink.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()
	require.True(t, sink.closed)

	n := sink.count()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, n, sink.count())
}

func TestRepositorySink(t *testing.T) {
	repo := &memoryRepo{}
	sink := NewRepositorySink(repo)
	pct := 55

	at := time.Now()
	err := sink.Publish(context.Background(), models.TelemetrySnapshot{
		BridgeID:  "bridge-1",
		SessionID: "session-1",
		Port:      "/dev/ttyUSB0",
		Timestamp: at,
		Telemetry: models.Telemetry{VoltageRaw: 1234, BatteryPercent: &pct},
	})
	require.NoError(t, err)
	require.Len(t, repo.samples, 1)
	require.Equal(t, "bridge-1", repo.samples[0].BridgeID)
	require.Equal(t, 1234, repo.samples[0].VoltageRaw)
	require.Equal(t, 55, *repo.samples[0].BatteryPercent)
	require.True(t, repo.samples[0].RecordedAt.Equal(at))
}

func TestUplinkSink_WritesNDJSON(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	sink := NewUplinkSink(ln.Addr().String(), logging.NewNopLogger())
	defer sink.Close()

	for _, raw := range []int{1100, 1090} {
		err := sink.Publish(context.Background(), models.TelemetrySnapshot{
			BridgeID:  "bridge-1",
			Telemetry: models.Telemetry{VoltageRaw: raw},
		})
		require.NoError(t, err)
	}

	for _, want := range []int{1100, 1090} {
		select {
		case line := <-lines:
			var snap models.TelemetrySnapshot
			require.NoError(t, json.Unmarshal([]byte(line), &snap))
			require.Equal(t, want, snap.Telemetry.VoltageRaw)
		case <-time.After(2 * time.Second):
			t.Fatal("uplink line not received")
		}
	}
}

func TestUplinkSink_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	sink := NewUplinkSink(addr, logging.NewNopLogger())
	err = sink.Publish(context.Background(), models.TelemetrySnapshot{})
	require.Error(t, err)
	require.NoError(t, sink.Close())
}
