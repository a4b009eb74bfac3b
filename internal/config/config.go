package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON   = "json"
	FormatBinary = "binary"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort string          `yaml:"server_port"`
	GinMode    string          `yaml:"gin_mode"`
	Serial     SerialConfig    `yaml:"serial"`
	Network    NetworkConfig   `yaml:"network"`
	Uplink     UplinkConfig    `yaml:"uplink"`
	Link       LinkConfig      `yaml:"link"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Kafka      KafkaConfig     `yaml:"kafka"`
	Database   DatabaseConfig  `yaml:"database"`
	Logging    LoggerConfig    `yaml:"logging"`
}

// SerialConfig описывает подключение к приемнику
type SerialConfig struct {
	Port          string `yaml:"port"`
	BaudRate      int    `yaml:"baud_rate"`
	VendorID      string `yaml:"vendor_id"`
	ProductID     string `yaml:"product_id"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// NetworkConfig - входящий поток команд (TCP-клиент к ретранслятору)
type NetworkConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Format string `yaml:"format"` // json | binary
}

func (n NetworkConfig) Address() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// UplinkConfig - исходящий поток телеметрии, отключен при пустом хосте
type UplinkConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (u UplinkConfig) Enabled() bool {
	return u.Host != "" && u.Port > 0
}

func (u UplinkConfig) Address() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

// LinkConfig - тайминги цикла управления
type LinkConfig struct {
	TickMs     int `yaml:"tick_ms"`
	RetryMs    int `yaml:"retry_ms"`
	NetRetryMs int `yaml:"net_retry_ms"`
	LivenessMs int `yaml:"liveness_ms"`
}

func (l LinkConfig) Tick() time.Duration     { return time.Duration(l.TickMs) * time.Millisecond }
func (l LinkConfig) Retry() time.Duration    { return time.Duration(l.RetryMs) * time.Millisecond }
func (l LinkConfig) NetRetry() time.Duration { return time.Duration(l.NetRetryMs) * time.Millisecond }
func (l LinkConfig) Liveness() time.Duration { return time.Duration(l.LivenessMs) * time.Millisecond }

// TelemetryConfig - период отправки снимков телеметрии во внешние системы
type TelemetryConfig struct {
	ReportMs int `yaml:"report_ms"`
}

func (t TelemetryConfig) Interval() time.Duration {
	return time.Duration(t.ReportMs) * time.Millisecond
}

// KafkaConfig содержит настройки продюсера телеметрии
type KafkaConfig struct {
	Enable bool   `yaml:"enable"`
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool   `yaml:"enable"`
	LogsDir    string `yaml:"logs_dir"`
	Level      string `yaml:"level"`
	SavingDays int    `yaml:"saving_days"`
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Enable   bool   `yaml:"enable"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ServerPort: "5181",
		GinMode:    "release",
		Serial: SerialConfig{
			BaudRate:      420000,
			ReadTimeoutMs: 1,
		},
		Network: NetworkConfig{
			Host:   "127.0.0.1",
			Format: FormatJSON,
		},
		Link: LinkConfig{
			TickMs:     10,
			RetryMs:    3000,
			NetRetryMs: 1000,
			LivenessMs: 6000,
		},
		Telemetry: TelemetryConfig{ReportMs: 1000},
		Kafka: KafkaConfig{
			Broker: "localhost:9092",
			Topic:  "rlink_telemetry",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			Username: "postgres",
			Password: "root",
			DBName:   "rlink_db",
		},
		Logging: LoggerConfig{
			Enable:     true,
			LogsDir:    "./logs",
			Level:      "INFO",
			SavingDays: 7,
		},
	}
}

// LoadConfiguration собирает конфигурацию: значения по умолчанию, затем YAML-файл
// из RLINK_CONFIG_FILE, затем .env и переменные окружения. Результат проверяется.
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("RLINK_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", apperrors.ErrInvalidConfig, path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidConfig, path, err)
	}
	return nil
}

// applyEnv накладывает переменные окружения. Нечисловые и небулевы значения
// не заменяются значением по умолчанию, а возвращаются ошибкой.
func (c *AppConfig) applyEnv() error {
	env := &envReader{}

	c.ServerPort = getEnv("APP_PORT", c.ServerPort)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)

	c.Serial.Port = getEnv("SERIAL_PORT", c.Serial.Port)
	c.Serial.BaudRate = env.Int("SERIAL_BAUD_RATE", c.Serial.BaudRate)
	c.Serial.VendorID = getEnv("SERIAL_VENDOR_ID", c.Serial.VendorID)
	c.Serial.ProductID = getEnv("SERIAL_PRODUCT_ID", c.Serial.ProductID)
	c.Serial.ReadTimeoutMs = env.Int("SERIAL_READ_TIMEOUT_MS", c.Serial.ReadTimeoutMs)

	c.Network.Host = getEnv("TCP_IN_HOST", c.Network.Host)
	c.Network.Port = env.Int("TCP_IN_PORT", c.Network.Port)
	c.Network.Format = strings.ToLower(getEnv("TCP_IN_FORMAT", c.Network.Format))

	c.Uplink.Host = getEnv("TCP_OUT_HOST", c.Uplink.Host)
	c.Uplink.Port = env.Int("TCP_OUT_PORT", c.Uplink.Port)

	c.Link.TickMs = env.Int("LINK_TICK_MS", c.Link.TickMs)
	c.Link.RetryMs = env.Int("LINK_RETRY_MS", c.Link.RetryMs)
	c.Link.NetRetryMs = env.Int("NETWORK_RETRY_MS", c.Link.NetRetryMs)
	c.Link.LivenessMs = env.Int("LINK_LIVENESS_MS", c.Link.LivenessMs)

	c.Telemetry.ReportMs = env.Int("TELEMETRY_REPORT_MS", c.Telemetry.ReportMs)

	c.Kafka.Enable = env.Bool("KAFKA_ENABLE", c.Kafka.Enable)
	c.Kafka.Broker = getEnv("KAFKA_BROKER", c.Kafka.Broker)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Database.Enable = env.Bool("DB_ENABLE", c.Database.Enable)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.Username = getEnv("DB_USER", c.Database.Username)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)

	c.Logging.Enable = env.Bool("LOGGER_ENABLE", c.Logging.Enable)
	c.Logging.LogsDir = getEnv("LOGGER_LOGS_DIR", c.Logging.LogsDir)
	c.Logging.Level = getEnv("LOGGER_LOG_LEVEL", c.Logging.Level)
	c.Logging.SavingDays = env.Int("LOGGER_SAVING_DAYS", c.Logging.SavingDays)

	if len(env.problems) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidConfig, strings.Join(env.problems, "; "))
	}
	return nil
}

// Validate проверяет обязательные поля. Ошибка здесь фатальна для запуска.
func (c *AppConfig) Validate() error {
	var problems []string

	if c.Serial.BaudRate <= 0 {
		problems = append(problems, "serial baud rate must be positive")
	}
	if c.Serial.Port == "" && (c.Serial.VendorID == "" || c.Serial.ProductID == "") {
		problems = append(problems, "either SERIAL_PORT or both SERIAL_VENDOR_ID and SERIAL_PRODUCT_ID are required")
	}
	if c.Serial.ReadTimeoutMs <= 0 {
		problems = append(problems, "serial read timeout must be positive")
	}
	if c.Network.Host == "" {
		problems = append(problems, "TCP_IN_HOST is required")
	}
	if c.Network.Port <= 0 || c.Network.Port > 65535 {
		problems = append(problems, fmt.Sprintf("TCP_IN_PORT out of range: %d", c.Network.Port))
	}
	if c.Network.Format != FormatJSON && c.Network.Format != FormatBinary {
		problems = append(problems, fmt.Sprintf("TCP_IN_FORMAT must be %q or %q, got %q", FormatJSON, FormatBinary, c.Network.Format))
	}
	if c.Uplink.Host != "" && (c.Uplink.Port <= 0 || c.Uplink.Port > 65535) {
		problems = append(problems, fmt.Sprintf("TCP_OUT_PORT out of range: %d", c.Uplink.Port))
	}
	if c.Link.TickMs <= 0 || c.Link.RetryMs <= 0 || c.Link.NetRetryMs <= 0 || c.Link.LivenessMs <= 0 {
		problems = append(problems, "link timings must be positive")
	}
	if c.Telemetry.ReportMs <= 0 {
		problems = append(problems, "TELEMETRY_REPORT_MS must be positive")
	}
	if c.ServerPort == "" {
		problems = append(problems, "APP_PORT is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envReader разбирает типизированные переменные и копит ошибки разбора
type envReader struct {
	problems []string
}

func (r *envReader) Int(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("%s=%q is not an integer", name, valueStr))
		return defaultValue
	}
	return value
}

func (r *envReader) Bool(name string, defaultValue bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("%s=%q is not a boolean", name, valueStr))
		return defaultValue
	}
	return value
}
