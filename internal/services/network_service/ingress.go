package network_service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/services/envelope"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
)

const (
	readBufferSize = 4096
	dialTimeout    = 5 * time.Second
)

// DialFunc открывает исходящее соединение
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Ingress - TCP-клиент к ретранслятору. Каждое непустое чтение продлевает окно
// живости и разбирается сразу. В слот "последнего значения" емкостью 1 попадают
// только проверенные векторы каналов: ping и мусор не вытесняют обновление.
type Ingress struct {
	address  string
	liveness time.Duration
	dial     DialFunc
	parse    envelope.Parser
	metrics  *metrics.Metrics
	logger   *logging.Logger

	lastReceived atomic.Int64
	latest       chan []int

	sessionMu sync.RWMutex
	sessionID string
}

func NewIngress(address string, liveness time.Duration, parse envelope.Parser, m *metrics.Metrics, logger *logging.Logger) *Ingress {
	if parse == nil {
		parse = envelope.ParseJSON
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &Ingress{
		address:  address,
		liveness: liveness,
		dial:     dialer.DialContext,
		parse:    parse,
		metrics:  m,
		logger:   logger.WithPrefix("INGRESS"),
		latest:   make(chan []int, 1),
	}
}

func (i *Ingress) Address() string {
	return i.address
}

// Updates - канал с последним непримененным вектором каналов
func (i *Ingress) Updates() <-chan []int {
	return i.latest
}

// RunSession подключается и читает поток до закрытия удаленной стороной,
// ошибки чтения или отмены ctx. Переподключение - забота вызывающего.
func (i *Ingress) RunSession(ctx context.Context) error {
	conn, err := i.dial(ctx, "tcp", i.address)
	if err != nil {
		return fmt.Errorf("connect %s: %w", i.address, err)
	}
	defer conn.Close()

	id := uuid.NewString()
	i.setSession(id)
	defer i.setSession("")

	i.metrics.SessionStarted()
	i.logger.Info("Connected to upstream relay", "address", i.address, "sessionID", id)

	// закрытие соединения прерывает блокирующее чтение
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			i.touch(time.Now())
			i.accept(buf[:n])
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("session %s: %w", id, apperrors.ErrStreamClosed)
			}
			return fmt.Errorf("read from %s: %w", i.address, err)
		}
		if n == 0 {
			return fmt.Errorf("session %s: %w", id, apperrors.ErrStreamClosed)
		}
	}
}

// accept разбирает блок. Ошибка разбора не трогает слот.
func (i *Ingress) accept(chunk []byte) {
	msg, err := i.parse(chunk)
	if err == nil {
		err = envelope.Apply(msg, updateSlot{ingress: i})
	}
	if err != nil {
		i.metrics.MessageMalformed()
		i.logger.Warn("Dropped inbound message", "bytes", len(chunk), "error", err)
		return
	}
	i.logger.Debug("Message accepted", "type", msg.Kind())
}

// updateSlot принимает вектор каналов в слот после проверки длины
type updateSlot struct {
	ingress *Ingress
}

func (s updateSlot) Replace(channels []int) error {
	if len(channels) != models.ChannelCount {
		return fmt.Errorf("%w: got %d", apperrors.ErrInvalidChannelCount, len(channels))
	}
	next := make([]int, len(channels))
	copy(next, channels)
	s.ingress.offer(next)
	return nil
}

// offer кладет вектор в слот, вытесняя непримененный
func (i *Ingress) offer(channels []int) {
	for {
		select {
		case i.latest <- channels:
			return
		default:
		}
		select {
		case <-i.latest:
		default:
		}
	}
}

func (i *Ingress) touch(at time.Time) {
	i.lastReceived.Store(at.UnixNano())
}

// LastReceived - время последнего полученного байта, нулевое до первых данных
func (i *Ingress) LastReceived() time.Time {
	ns := i.lastReceived.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// IsActive: канал активен, пока с последнего байта прошло меньше окна живости
func (i *Ingress) IsActive(now time.Time) bool {
	last := i.LastReceived()
	if last.IsZero() {
		return false
	}
	return now.Sub(last) < i.liveness
}

func (i *Ingress) SessionID() string {
	i.sessionMu.RLock()
	defer i.sessionMu.RUnlock()
	return i.sessionID
}

func (i *Ingress) setSession(id string) {
	i.sessionMu.Lock()
	i.sessionID = id
	i.sessionMu.Unlock()
}
