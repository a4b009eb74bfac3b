package models

import (
	"time"

	"github.com/iwtcode/rlinkBridge/pkg/crsf"
)

// ChannelCount - фиксированное число каналов в векторе управления
const ChannelCount = crsf.ChannelCount

// DefaultChannels - стартовый вектор до первой команды: все каналы 1000 мкс, канал 5 в центре
func DefaultChannels() []int {
	ch := make([]int, ChannelCount)
	for i := range ch {
		ch[i] = 1000
	}
	ch[5] = 1500
	return ch
}

// Telemetry содержит последние известные показания приемника.
// Поля тока, емкости и процента заряда зарезервированы и пока не заполняются.
type Telemetry struct {
	VoltageRaw     int       `json:"voltageRaw"` // сотые доли вольта
	VoltageV       float64   `json:"voltageV"`
	CurrentMa      *int      `json:"currentMa"`
	CapacityMah    *int      `json:"capacityMah"`
	BatteryPercent *int      `json:"batteryPercent"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasReading сообщает, было ли декодировано хотя бы одно значение
func (t Telemetry) HasReading() bool {
	return !t.UpdatedAt.IsZero()
}

// TelemetrySnapshot - снимок телеметрии для внешних систем (Kafka, БД, TCP uplink)
type TelemetrySnapshot struct {
	BridgeID  string    `json:"bridge_id"`
	SessionID string    `json:"session_id"`
	Port      string    `json:"port"`
	Timestamp time.Time `json:"timestamp"`
	Telemetry Telemetry `json:"telemetry"`
}

// Message - разобранное входящее сообщение: ChannelUpdate или Ping
type Message interface {
	Kind() string
}

// ChannelUpdate - новый вектор каналов (мкс)
type ChannelUpdate struct {
	Channels []int `json:"channels"`
}

func (ChannelUpdate) Kind() string { return "channels" }

// Ping - сообщение поддержания связи без данных
type Ping struct{}

func (Ping) Kind() string { return "ping" }

// LinkStatus описывает текущее состояние моста
type LinkStatus struct {
	SerialOpen     bool      `json:"serial_open"`
	SerialPort     string    `json:"serial_port"`
	NetworkActive  bool      `json:"network_active"`
	NetworkAddress string    `json:"network_address"`
	SessionID      string    `json:"session_id,omitempty"`
	LastReceived   time.Time `json:"last_received"`
	FramesSent     uint64    `json:"frames_sent"`
	FramesWithheld uint64    `json:"frames_withheld"`
	Channels       []int     `json:"channels"`
}
