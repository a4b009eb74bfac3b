package serial_service

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"
	"github.com/iwtcode/rlinkBridge/internal/services/state"
	"github.com/iwtcode/rlinkBridge/pkg/crsf"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"go.bug.st/serial"
)

const (
	readChunkSize = 256
	maxDrainBytes = 4096
)

// Port - открытое последовательное устройство
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// OpenFunc открывает устройство по пути и скорости
type OpenFunc func(path string, baudRate int) (Port, error)

// OpenSerial открывает порт через go.bug.st/serial в режиме 8N1
func OpenSerial(path string, baudRate int) (Port, error) {
	p, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Driver владеет дескриптором порта. Повторы открытия - забота цикла управления.
type Driver struct {
	path        string
	baudRate    int
	readTimeout time.Duration
	open        OpenFunc
	decoder     crsf.TelemetryDecoder
	telemetry   *state.TelemetryStore
	metrics     *metrics.Metrics
	logger      *logging.Logger

	mu   sync.Mutex
	port Port
	buf  []byte
}

func NewDriver(path string, baudRate int, readTimeout time.Duration, open OpenFunc, decoder crsf.TelemetryDecoder, telemetry *state.TelemetryStore, m *metrics.Metrics, logger *logging.Logger) *Driver {
	if open == nil {
		open = OpenSerial
	}
	if decoder == nil {
		decoder = crsf.MarkerScanDecoder{}
	}
	return &Driver{
		path:        path,
		baudRate:    baudRate,
		readTimeout: readTimeout,
		open:        open,
		decoder:     decoder,
		telemetry:   telemetry,
		metrics:     m,
		logger:      logger.WithPrefix("SERIAL"),
		buf:         make([]byte, readChunkSize),
	}
}

func (d *Driver) Path() string {
	return d.path
}

func (d *Driver) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port != nil
}

// Connect открывает устройство. Неудача возвращает ErrDeviceUnavailable и не фатальна.
func (d *Driver) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port != nil {
		return nil
	}

	p, err := d.open(d.path, d.baudRate)
	if err != nil {
		d.metrics.SerialOpenFailed()
		return fmt.Errorf("%w: open %s: %s", apperrors.ErrDeviceUnavailable, d.path, describePortError(err))
	}
	if err := p.SetReadTimeout(d.readTimeout); err != nil {
		p.Close()
		d.metrics.SerialOpenFailed()
		return fmt.Errorf("%w: set read timeout on %s: %v", apperrors.ErrDeviceUnavailable, d.path, err)
	}

	d.port = p
	d.metrics.SetSerialOpen(true)
	d.logger.Info("Serial port opened", "port", d.path, "baud", d.baudRate)
	return nil
}

// SendFrame пишет кадр целиком. При ошибке порт закрывается.
func (d *Driver) SendFrame(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return fmt.Errorf("%w: %s is not open", apperrors.ErrDeviceUnavailable, d.path)
	}

	for written := 0; written < len(frame); {
		n, err := d.port.Write(frame[written:])
		if err != nil {
			d.closeLocked()
			return fmt.Errorf("%w: write %s: %s", apperrors.ErrDeviceUnavailable, d.path, describePortError(err))
		}
		if n == 0 {
			d.closeLocked()
			return fmt.Errorf("%w: write %s: zero bytes written", apperrors.ErrDeviceUnavailable, d.path)
		}
		written += n
	}
	d.metrics.FrameSent()
	return nil
}

// ReadAvailable вычитывает накопленные байты и передает их декодеру телеметрии.
// Прочитанный буфер отбрасывается независимо от результата.
func (d *Driver) ReadAvailable() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return 0, fmt.Errorf("%w: %s is not open", apperrors.ErrDeviceUnavailable, d.path)
	}

	var received []byte
	for len(received) < maxDrainBytes {
		n, err := d.port.Read(d.buf)
		if n > 0 {
			received = append(received, d.buf[:n]...)
		}
		if err != nil {
			// запись, пришедшая до ошибки, не теряется
			d.decodeLocked(received)
			d.closeLocked()
			return len(received), fmt.Errorf("%w: read %s: %s", apperrors.ErrDeviceUnavailable, d.path, describePortError(err))
		}
		// таймаут чтения без данных: буфер устройства пуст
		if n == 0 {
			break
		}
	}

	d.decodeLocked(received)
	return len(received), nil
}

func (d *Driver) decodeLocked(received []byte) {
	if battery, ok := d.decoder.Decode(received); ok {
		d.telemetry.SetVoltage(battery.VoltageRaw, time.Now())
		d.metrics.TelemetryDecoded(battery.VoltageV())
		d.logger.Debug("Telemetry decoded", "voltage", battery.VoltageV())
	}
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *Driver) closeLocked() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	d.metrics.SetSerialOpen(false)
	d.logger.Warn("Serial port closed", "port", d.path)
	return err
}

// describePortError добавляет к ошибке библиотеки понятную причину
func describePortError(err error) string {
	code, ok := portErrorCode(err)
	if !ok {
		return err.Error()
	}
	switch code {
	case serial.PortNotFound:
		return "device not found: " + err.Error()
	case serial.PortBusy:
		return "device busy: " + err.Error()
	case serial.PermissionDenied:
		return "permission denied: " + err.Error()
	case serial.PortClosed:
		return "port closed: " + err.Error()
	case serial.InvalidSpeed:
		return "unsupported baud rate: " + err.Error()
	default:
		return err.Error()
	}
}

func portErrorCode(err error) (serial.PortErrorCode, bool) {
	var pe *serial.PortError
	if errors.As(err, &pe) && pe != nil {
		return pe.Code(), true
	}
	var pv serial.PortError
	if errors.As(err, &pv) {
		return pv.Code(), true
	}
	return 0, false
}
