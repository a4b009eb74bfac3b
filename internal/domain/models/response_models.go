package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"400"`
		Message string `json:"message" example:"Expected 16 channel values in the 'channels' array."`
	} `json:"error"`
}

// MessageResponse представляет стандартный успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Channels updated!"`
}

// StatusResponse - ответ GET /api/v1/status
type StatusResponse struct {
	Status string      `json:"status" example:"ok"`
	Link   *LinkStatus `json:"link"`
}

// HistoryResponse - ответ GET /api/v1/telemetry/history
type HistoryResponse struct {
	Status  string            `json:"status" example:"ok"`
	Count   int               `json:"count" example:"2"`
	Samples []TelemetryRecord `json:"samples"`
}

// TelemetryRecord - сохраненный снимок телеметрии в ответе API
type TelemetryRecord struct {
	ID         uint    `json:"id"`
	BridgeID   string  `json:"bridge_id"`
	SessionID  string  `json:"session_id"`
	VoltageRaw int     `json:"voltage_raw"`
	VoltageV   float64 `json:"voltage_v"`
	RecordedAt string  `json:"recorded_at"`
}
