package entities

import "time"

// TelemetrySample - строка истории телеметрии
type TelemetrySample struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BridgeID       string    `gorm:"index;not null" json:"bridge_id"`
	SessionID      string    `gorm:"index" json:"session_id"`
	Port           string    `json:"port"`
	VoltageRaw     int       `gorm:"not null" json:"voltage_raw"`
	CurrentMa      *int      `json:"current_ma"`
	CapacityMah    *int      `json:"capacity_mah"`
	BatteryPercent *int      `json:"battery_percent"`
	RecordedAt     time.Time `gorm:"index;not null" json:"recorded_at"`
	CreatedAt      time.Time `json:"created_at"`
}
