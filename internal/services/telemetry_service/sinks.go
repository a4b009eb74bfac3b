package telemetry_service

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
)

// RepositorySink сохраняет снимки в историю телеметрии
type RepositorySink struct {
	repo interfaces.TelemetryRepository
}

func NewRepositorySink(repo interfaces.TelemetryRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Name() string { return "postgres" }

func (s *RepositorySink) Publish(ctx context.Context, snapshot models.TelemetrySnapshot) error {
	t := snapshot.Telemetry
	return s.repo.Create(ctx, &entities.TelemetrySample{
		BridgeID:       snapshot.BridgeID,
		SessionID:      snapshot.SessionID,
		Port:           snapshot.Port,
		VoltageRaw:     t.VoltageRaw,
		CurrentMa:      t.CurrentMa,
		CapacityMah:    t.CapacityMah,
		BatteryPercent: t.BatteryPercent,
		RecordedAt:     snapshot.Timestamp,
	})
}

// UplinkSink пишет снимки в исходящее TCP-соединение построчно (NDJSON).
// Подключается лениво, после ошибки записи соединение сбрасывается до следующего снимка.
type UplinkSink struct {
	address string
	dialer  net.Dialer
	logger  *logging.Logger

	mu   sync.Mutex
	conn net.Conn
}

func NewUplinkSink(address string, logger *logging.Logger) *UplinkSink {
	return &UplinkSink{
		address: address,
		dialer:  net.Dialer{Timeout: 2 * time.Second},
		logger:  logger.WithPrefix("UPLINK"),
	}
}

func (s *UplinkSink) Name() string { return "uplink" }

func (s *UplinkSink) Publish(ctx context.Context, snapshot models.TelemetrySnapshot) error {
	line, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize telemetry snapshot: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := s.dialer.DialContext(ctx, "tcp", s.address)
		if err != nil {
			return fmt.Errorf("connect uplink %s: %w", s.address, err)
		}
		s.conn = conn
		s.logger.Info("Uplink connected", "address", s.address)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
	}
	if _, err := s.conn.Write(line); err != nil {
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("write uplink %s: %w", s.address, err)
	}
	return nil
}

func (s *UplinkSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
