package postgres

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/adapters/repositories/postgres/telemetry_sample"
	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/domain/entities"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	interfaces.TelemetryRepository
}

// NewRepository подключается к БД истории телеметрии. При DB_ENABLE=false возвращает nil.
func NewRepository(cfg *config.AppConfig, appLogger *logging.Logger) (interfaces.TelemetryRepository, error) {
	if !cfg.Database.Enable {
		appLogger.Info("Telemetry history disabled")
		return nil, nil
	}

	// Шаг 1: Подключение к служебной БД 'postgres' для проверки и создания целевой БД
	dsnPostgres := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Port,
	)

	db, err := gorm.Open(postgres.Open(dsnPostgres), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к служебной БД 'postgres': %w", err)
	}

	// Шаг 2: Создаем целевую БД, если ее нет
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)"
	if err := db.Raw(query, cfg.Database.DBName).Scan(&exists).Error; err != nil {
		return nil, fmt.Errorf("не удалось проверить существование БД '%s': %w", cfg.Database.DBName, err)
	}
	if !exists {
		appLogger.Info("Database not found. Creating...", "db_name", cfg.Database.DBName)
		if err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database.DBName)).Error; err != nil {
			return nil, fmt.Errorf("не удалось создать БД '%s': %w", cfg.Database.DBName, err)
		}
	}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()

	// Шаг 3: Основное подключение
	dsnApp := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.Port,
	)

	// снимки пишутся каждую секунду, поэтому SQL-лог только для медленных запросов и ошибок
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	appDb, err := gorm.Open(postgres.Open(dsnApp), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных '%s': %w", cfg.Database.DBName, err)
	}

	if err := autoMigrate(appDb); err != nil {
		return nil, fmt.Errorf("ошибка выполнения автомиграций: %w", err)
	}

	return &Repository{
		TelemetryRepository: telemetry_sample.NewTelemetrySampleRepository(appDb),
	}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entities.TelemetrySample{})
}
