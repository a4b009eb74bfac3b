package telemetry_service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"
	"github.com/iwtcode/rlinkBridge/internal/services/state"
)

const publishTimeout = 3 * time.Second

// Reporter периодически рассылает снимок телеметрии по всем приемникам.
// Ошибка одного приемника не влияет на остальные.
type Reporter struct {
	bridgeID  string
	interval  time.Duration
	telemetry *state.TelemetryStore
	session   func() string
	port      string
	sinks     []interfaces.TelemetrySink
	metrics   *metrics.Metrics
	logger    *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReporter(
	interval time.Duration,
	telemetry *state.TelemetryStore,
	session func() string,
	port string,
	sinks []interfaces.TelemetrySink,
	m *metrics.Metrics,
	logger *logging.Logger,
) *Reporter {
	if session == nil {
		session = func() string { return "" }
	}
	return &Reporter{
		bridgeID:  uuid.NewString(),
		interval:  interval,
		telemetry: telemetry,
		session:   session,
		port:      port,
		sinks:     sinks,
		metrics:   m,
		logger:    logger.WithPrefix("REPORTER"),
	}
}

func (r *Reporter) BridgeID() string {
	return r.bridgeID
}

// Start запускает Run в фоне. Без приемников ничего не делает.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil || len(r.sinks) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.Run(ctx)
	}()
}

func (r *Reporter) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	for _, sink := range r.sinks {
		if c, ok := sink.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				r.logger.Warn("Failed to close telemetry sink", "sink", sink.Name(), "error", err)
			}
		}
	}
}

// Run рассылает снимки каждые interval до отмены ctx
func (r *Reporter) Run(ctx context.Context) {
	names := make([]string, 0, len(r.sinks))
	for _, s := range r.sinks {
		names = append(names, s.Name())
	}
	r.logger.Info("Telemetry reporter started", "bridgeID", r.bridgeID, "interval", r.interval, "sinks", names)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Telemetry reporter stopped")
			return
		case now := <-ticker.C:
			r.Report(ctx, now)
		}
	}
}

// Report отправляет один снимок. Пока напряжение ни разу не декодировано, снимок пропускается.
func (r *Reporter) Report(ctx context.Context, now time.Time) int {
	t := r.telemetry.Get()
	if !t.HasReading() {
		return 0
	}

	snapshot := models.TelemetrySnapshot{
		BridgeID:  r.bridgeID,
		SessionID: r.session(),
		Port:      r.port,
		Timestamp: now,
		Telemetry: t,
	}

	delivered := 0
	for _, sink := range r.sinks {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		started := time.Now()
		err := sink.Publish(pubCtx, snapshot)
		cancel()
		r.metrics.ObserveSink(sink.Name(), time.Since(started).Seconds())

		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return delivered
			}
			r.metrics.SinkFailed(sink.Name())
			r.logger.Warn("Failed to publish telemetry", "sink", sink.Name(), "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
