package usecases

import "github.com/iwtcode/rlinkBridge/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases. repo может быть nil, если история отключена.
func NewUsecases(
	bridge interfaces.BridgeService,
	repo interfaces.TelemetryRepository,
) interfaces.Usecases {
	return NewUsecase(bridge, repo)
}
