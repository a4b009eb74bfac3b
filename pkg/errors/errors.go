package errors

import (
	"errors"
	"fmt"
)

const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"
	ServiceUnavailable  = "service unavailable"

	InvalidDataCode         = 400
	NotFoundErrorCode       = 404
	InternalServerErrorCode = 500
	UnavailableErrorCode    = 503
)

// AppError представляет собой стандартизированную структуру ошибки для API.
type AppError struct {
	Code         int    `json:"code"`    // HTTP статус код
	Message      string `json:"message"` // Сообщение для клиента
	Err          error  `json:"-"`       // Внутренняя ошибка, не для клиента
	IsUserFacing bool   `json:"-"`       // Флаг, указывающий, можно ли показывать `Err`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

func (a *AppError) Unwrap() error {
	if a == nil {
		return nil
	}
	return a.Err
}

// NewAppError создает новый экземпляр AppError.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

// Виды ошибок канала управления. Все, кроме ошибок конфигурации, восстановимы.
var (
	// ErrDeviceUnavailable - последовательный порт не открылся, повтор на следующем цикле
	ErrDeviceUnavailable = errors.New("serial device unavailable")
	// ErrLinkStale - нет данных из сети дольше окна живости, передача пропускается
	ErrLinkStale = errors.New("network link stale")
	// ErrMalformedMessage - входящее сообщение не разобрано или не прошло валидацию
	ErrMalformedMessage = errors.New("malformed message")
	// ErrStreamClosed - удаленная сторона закрыла TCP-соединение
	ErrStreamClosed = errors.New("stream closed by remote")
	// ErrInvalidChannelCount - вектор каналов не из 16 значений
	ErrInvalidChannelCount = errors.New("expected 16 channel values")
	// ErrPortNotFound - не найден порт по VID/PID
	ErrPortNotFound = errors.New("serial port not found")
	// ErrInvalidConfig - ошибка конфигурации, фатальна при старте
	ErrInvalidConfig = errors.New("invalid configuration")

	ErrDataNotFound = errors.New("data not found")
	ErrInternal     = errors.New("internal error")
)
