package handlers

import (
	"net/http"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// Root отвечает, что сервис запущен
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Rope Server is running")
}

// Health - проба живости.
// @Summary Проверка живости
// @Tags Link
// @Produce plain
// @Success 200 {string} string "Healthy"
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Healthy")
}

// GetTelemetry возвращает последние показания приемника.
// @Summary Текущая телеметрия
// @Description Последнее декодированное напряжение батареи и зарезервированные поля.
// @Tags Link
// @Produce json
// @Success 200 {object} models.Telemetry
// @Router /telemetry [get]
func (h *Handler) GetTelemetry(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.GetTelemetry())
}

// SendChannels заменяет вектор каналов.
// @Summary Обновить каналы
// @Description Принимает ровно 16 значений каналов в микросекундах.
// @Tags Link
// @Accept json
// @Produce json
// @Param input body models.ChannelUpdateRequest true "Вектор из 16 каналов"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse "Неверное число каналов"
// @Router /send [post]
func (h *Handler) SendChannels(c *gin.Context) {
	var req models.ChannelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, channelCountMessage)
		return
	}

	if err := h.usecase.UpdateChannels(req.Channels); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "ok", Message: "Channels updated!"})
}
