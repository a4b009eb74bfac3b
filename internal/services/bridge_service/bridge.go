package bridge_service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"
	"github.com/iwtcode/rlinkBridge/internal/services/network_service"
	"github.com/iwtcode/rlinkBridge/internal/services/serial_service"
	"github.com/iwtcode/rlinkBridge/internal/services/state"
	"github.com/iwtcode/rlinkBridge/pkg/crsf"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
)

const (
	reasonSerialClosed = "serial_closed"
	reasonLinkStale    = "link_stale"
	reasonSendFailed   = "send_failed"
)

// Bridge связывает сетевой вход и последовательный порт.
// Два цикла работают независимо и общаются только через хранилища состояния.
type Bridge struct {
	link      config.LinkConfig
	ingress   *network_service.Ingress
	driver    *serial_service.Driver
	builder   *crsf.FrameBuilder
	channels  *state.ChannelStore
	telemetry *state.TelemetryStore
	metrics   *metrics.Metrics
	logger    *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	framesSent     atomic.Uint64
	framesWithheld atomic.Uint64
	stale          atomic.Bool
}

func NewBridge(
	cfg *config.AppConfig,
	ingress *network_service.Ingress,
	driver *serial_service.Driver,
	channels *state.ChannelStore,
	telemetry *state.TelemetryStore,
	m *metrics.Metrics,
	logger *logging.Logger,
) *Bridge {
	b := &Bridge{
		link:      cfg.Link,
		ingress:   ingress,
		driver:    driver,
		builder:   crsf.NewFrameBuilder(nil),
		channels:  channels,
		telemetry: telemetry,
		metrics:   m,
		logger:    logger.WithPrefix("BRIDGE"),
	}
	b.stale.Store(true)
	return b
}

// Start запускает сетевой цикл, применение сообщений и цикл передачи
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return errors.New("bridge already running")
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.running = true

	b.wg.Add(3)
	go b.supervise(runCtx, "network", b.runNetwork)
	go b.supervise(runCtx, "apply", b.runApply)
	go b.supervise(runCtx, "link", b.runLink)

	b.logger.Info("Bridge started",
		"upstream", b.ingress.Address(),
		"serial", b.driver.Path(),
		"tick", b.link.Tick(),
		"liveness", b.link.Liveness(),
	)
	return nil
}

// Stop останавливает циклы и закрывает порт
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.cancel()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Bridge stop timed out", "error", ctx.Err())
	}

	if err := b.driver.Close(); err != nil {
		b.logger.Warn("Failed to close serial port", "error", err)
	}
	b.logger.Info("Bridge stopped")
	return nil
}

// supervise перезапускает цикл после паники, пока не отменен ctx
func (b *Bridge) supervise(ctx context.Context, name string, loop func(context.Context)) {
	defer b.wg.Done()
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Loop panicked, restarting", "loop", name, "panic", r)
				}
			}()
			loop(ctx)
		}()
		if ctx.Err() != nil {
			return
		}
		if !sleepCtx(ctx, b.link.NetRetry()) {
			return
		}
	}
}

func (b *Bridge) runNetwork(ctx context.Context) {
	for {
		err := b.ingress.RunSession(ctx)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, apperrors.ErrStreamClosed) {
			b.logger.Warn("Upstream closed the stream, reconnecting", "address", b.ingress.Address(), "retry", b.link.NetRetry())
		} else {
			b.logger.Warn("Network session failed", "address", b.ingress.Address(), "error", err, "retry", b.link.NetRetry())
		}
		if !sleepCtx(ctx, b.link.NetRetry()) {
			return
		}
	}
}

func (b *Bridge) runApply(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-b.ingress.Updates():
			b.applyUpdate(update)
		}
	}
}

// applyUpdate заменяет вектор; ошибка не трогает текущий
func (b *Bridge) applyUpdate(channels []int) {
	if err := b.channels.Replace(channels); err != nil {
		b.metrics.MessageMalformed()
		b.logger.Warn("Dropped channel update", "error", err)
		return
	}
	b.logger.Debug("Channel update applied")
}

func (b *Bridge) runLink(ctx context.Context) {
	for {
		delay := b.safeTick(time.Now())
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

func (b *Bridge) safeTick(now time.Time) (delay time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Link tick panicked", "panic", r)
			delay = b.link.Tick()
		}
	}()
	return b.tick(now)
}

// tick - одна итерация цикла передачи. Возвращает паузу до следующей.
// Кадр уходит только при открытом порте и активном сетевом канале.
func (b *Bridge) tick(now time.Time) time.Duration {
	active := b.ingress.IsActive(now)
	b.metrics.SetNetworkActive(active)

	if !b.driver.IsOpen() {
		if err := b.driver.Connect(); err != nil {
			b.withhold(reasonSerialClosed)
			b.logger.Warn("Serial device unavailable", "port", b.driver.Path(), "error", err, "retry", b.link.Retry())
			return b.link.Retry()
		}
	}

	if !active {
		if !b.stale.Swap(true) {
			b.logger.Warn("Network link stale, withholding frames", "error", apperrors.ErrLinkStale, "last_received", b.ingress.LastReceived())
		}
		b.withhold(reasonLinkStale)
		return b.link.Tick()
	}
	if b.stale.Swap(false) {
		b.logger.Info("Network link active, transmitting")
	}

	frame, err := b.builder.Build(b.channels.Get())
	if err != nil {
		b.withhold(reasonSendFailed)
		b.logger.Error("Failed to build frame", "error", err)
		return b.link.Tick()
	}
	if err := b.driver.SendFrame(frame); err != nil {
		b.withhold(reasonSendFailed)
		b.logger.Warn("Failed to send frame", "port", b.driver.Path(), "error", err)
		return b.link.Tick()
	}
	b.framesSent.Add(1)

	if _, err := b.driver.ReadAvailable(); err != nil {
		b.logger.Warn("Failed to read telemetry", "port", b.driver.Path(), "error", err)
	}
	return b.link.Tick()
}

func (b *Bridge) withhold(reason string) {
	b.framesWithheld.Add(1)
	b.metrics.FrameWithheld(reason)
}

// UpdateChannels заменяет вектор каналов (HTTP)
func (b *Bridge) UpdateChannels(channels []int) error {
	return b.channels.Replace(channels)
}

func (b *Bridge) Telemetry() models.Telemetry {
	return b.telemetry.Get()
}

func (b *Bridge) SessionID() string {
	return b.ingress.SessionID()
}

func (b *Bridge) SerialPort() string {
	return b.driver.Path()
}

// Status возвращает снимок состояния моста
func (b *Bridge) Status() *models.LinkStatus {
	return &models.LinkStatus{
		SerialOpen:     b.driver.IsOpen(),
		SerialPort:     b.driver.Path(),
		NetworkActive:  b.ingress.IsActive(time.Now()),
		NetworkAddress: b.ingress.Address(),
		SessionID:      b.ingress.SessionID(),
		LastReceived:   b.ingress.LastReceived(),
		FramesSent:     b.framesSent.Load(),
		FramesWithheld: b.framesWithheld.Load(),
		Channels:       b.channels.Get(),
	}
}

// sleepCtx ждет d или отмены ctx; false означает отмену
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
