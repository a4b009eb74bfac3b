package handlers

import (
	"net/http"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetStatus возвращает состояние моста.
// @Summary Состояние моста
// @Description Порт, живость сетевого канала, счетчики кадров и текущий вектор каналов.
// @Tags Status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/v1/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok", Link: h.usecase.GetStatus()})
}

// GetTelemetryHistory возвращает последние сохраненные снимки телеметрии.
// @Summary История телеметрии
// @Tags Status
// @Produce json
// @Param limit query int false "Количество записей (1-1000)" default(50)
// @Success 200 {object} models.HistoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/telemetry/history [get]
func (h *Handler) GetTelemetryHistory(c *gin.Context) {
	var q models.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err, "Invalid limit")
		return
	}

	samples, err := h.usecase.GetTelemetryHistory(c.Request.Context(), q.Limit)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	records := make([]models.TelemetryRecord, 0, len(samples))
	for _, s := range samples {
		records = append(records, models.TelemetryRecord{
			ID:         s.ID,
			BridgeID:   s.BridgeID,
			SessionID:  s.SessionID,
			VoltageRaw: s.VoltageRaw,
			VoltageV:   float64(s.VoltageRaw) / 100,
			RecordedAt: s.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	c.JSON(http.StatusOK, models.HistoryResponse{Status: "ok", Count: len(records), Samples: records})
}
