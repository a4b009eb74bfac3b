package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/adapters/handlers"
	"github.com/iwtcode/rlinkBridge/internal/adapters/repositories/postgres"
	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/middleware/swagger"
	"github.com/iwtcode/rlinkBridge/internal/services/bridge_service"
	"github.com/iwtcode/rlinkBridge/internal/services/envelope"
	"github.com/iwtcode/rlinkBridge/internal/services/kafka"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"
	"github.com/iwtcode/rlinkBridge/internal/services/network_service"
	"github.com/iwtcode/rlinkBridge/internal/services/serial_service"
	"github.com/iwtcode/rlinkBridge/internal/services/state"
	"github.com/iwtcode/rlinkBridge/internal/services/telemetry_service"
	"github.com/iwtcode/rlinkBridge/internal/usecases"
	"github.com/iwtcode/rlinkBridge/pkg/crsf"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(Options())
}

// Options - полный граф зависимостей приложения
func Options() fx.Option {
	return fx.Options(
		ConfigModule,
		LoggingModule,
		MetricsModule,
		StateModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		TelemetryModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых циклов
		fx.Invoke(InvokeBridge),
		fx.Invoke(InvokeTelemetryReporter),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(lc fx.Lifecycle, cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	logger := logging.NewLogger(loggerCfg, "RLinkBridge")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return logger.Close()
		},
	})
	return logger
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var MetricsModule = fx.Module("metrics_module",
	fx.Provide(metrics.NewMetrics),
)

var StateModule = fx.Module("state_module",
	fx.Provide(
		state.NewChannelStore,
		state.NewTelemetryStore,
	),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

// ProvideKafkaProducer возвращает nil, если публикация в Kafka отключена
func ProvideKafkaProducer(cfg *config.AppConfig, logger *logging.Logger) (interfaces.TelemetryProducer, error) {
	if !cfg.Kafka.Enable {
		logger.Info("Kafka publishing disabled")
		return nil, nil
	}
	logger.Info("Kafka publishing enabled", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	return kafka.NewKafkaProducer(cfg)
}

var ProducerModule = fx.Module("producer_module",
	fx.Provide(ProvideKafkaProducer),
)

// ProvideSerialDriver определяет порт (явно или по VID/PID) и создает драйвер.
// Если порт не найден, запуск прерывается.
func ProvideSerialDriver(cfg *config.AppConfig, telemetry *state.TelemetryStore, m *metrics.Metrics, logger *logging.Logger) (*serial_service.Driver, error) {
	path, err := serial_service.ResolvePort(cfg.Serial, serial_service.NewDiscovery(logger))
	if err != nil {
		return nil, err
	}
	readTimeout := time.Duration(cfg.Serial.ReadTimeoutMs) * time.Millisecond
	return serial_service.NewDriver(path, cfg.Serial.BaudRate, readTimeout, serial_service.OpenSerial, crsf.MarkerScanDecoder{}, telemetry, m, logger), nil
}

// ProvideIngress выбирает парсер потока по TCP_IN_FORMAT
func ProvideIngress(cfg *config.AppConfig, m *metrics.Metrics, logger *logging.Logger) (*network_service.Ingress, error) {
	parse, err := envelope.ForFormat(cfg.Network.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	return network_service.NewIngress(cfg.Network.Address(), cfg.Link.Liveness(), parse, m, logger), nil
}

func AsBridgeService(b *bridge_service.Bridge) interfaces.BridgeService {
	return b
}

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		ProvideSerialDriver,
		ProvideIngress,
		bridge_service.NewBridge,
		AsBridgeService,
	),
)

// ProvideTelemetrySinks собирает включенные приемники телеметрии
func ProvideTelemetrySinks(cfg *config.AppConfig, producer interfaces.TelemetryProducer, repo interfaces.TelemetryRepository, logger *logging.Logger) []interfaces.TelemetrySink {
	var sinks []interfaces.TelemetrySink
	if producer != nil {
		sinks = append(sinks, kafka.NewTelemetryPublisher(producer))
	}
	if repo != nil {
		sinks = append(sinks, telemetry_service.NewRepositorySink(repo))
	}
	if cfg.Uplink.Enabled() {
		sinks = append(sinks, telemetry_service.NewUplinkSink(cfg.Uplink.Address(), logger))
	}
	return sinks
}

func ProvideReporter(cfg *config.AppConfig, telemetry *state.TelemetryStore, ingress *network_service.Ingress, driver *serial_service.Driver, sinks []interfaces.TelemetrySink, m *metrics.Metrics, logger *logging.Logger) *telemetry_service.Reporter {
	return telemetry_service.NewReporter(cfg.Telemetry.Interval(), telemetry, ingress.SessionID, driver.Path(), sinks, m, logger)
}

var TelemetryModule = fx.Module("telemetry_module",
	fx.Provide(
		ProvideTelemetrySinks,
		ProvideReporter,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig(cfg *config.AppConfig) *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
		Host:    "localhost:" + cfg.ServerPort,
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeBridge запускает циклы моста при старте и останавливает при завершении.
func InvokeBridge(lc fx.Lifecycle, bridge *bridge_service.Bridge) {
	lc.Append(fx.Hook{
		OnStart: bridge.Start,
		OnStop:  bridge.Stop,
	})
}

// InvokeTelemetryReporter запускает рассылку телеметрии.
func InvokeTelemetryReporter(lc fx.Lifecycle, reporter *telemetry_service.Reporter) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			reporter.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			reporter.Stop()
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
