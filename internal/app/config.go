package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/contract/internal/messaging/kafka"
)

// Поддерживаемые хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Форматы логов.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	envPrefix     = "CONTRACT"
	envConfigFile = "CONTRACT_CONFIG_FILE"
)

// Ключи конфигурации. Переменная окружения строится как CONTRACT_ + ключ с "_" вместо ".",
// например http.addr -> CONTRACT_HTTP_ADDR.
const (
	keyHTTPAddr            = "http.addr"
	keyGRPCAddr            = "grpc.addr"
	keyMetricsAddr         = "metrics.addr"
	keyStorageDriver       = "storage.driver"
	keyPostgresDSN         = "postgres.dsn"
	keyPostgresAutoMigrate = "postgres.auto_migrate"
	keyKafkaBrokers        = "kafka.brokers"
	keyKafkaStatusTopic    = "kafka.status_topic"
	keyPublishMaxAttempts  = "kafka.publish_max_attempts"
	keyLogLevel            = "log.level"
	keyLogFormat           = "log.format"
	keyShutdownTimeout     = "shutdown.timeout"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустая строка отключает публикацию.
	KafkaBrokers       string
	KafkaStatusTopic   string
	PublishMaxAttempts int

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaStatusTopic:    kafka.DefaultStatusTopic,
		PublishMaxAttempts:  3,
		LogLevel:            "info",
		LogFormat:           LogFormatText,
		ShutdownTimeout:     10 * time.Second,
	}
}

// LoadConfig читает настройки из файла CONTRACT_CONFIG_FILE (если задан) и переменных
// окружения CONTRACT_*. Окружение имеет приоритет над файлом.
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := strings.TrimSpace(os.Getenv(envConfigFile)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTPAddr:            strings.TrimSpace(v.GetString(keyHTTPAddr)),
		GRPCAddr:            strings.TrimSpace(v.GetString(keyGRPCAddr)),
		MetricsAddr:         strings.TrimSpace(v.GetString(keyMetricsAddr)),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString(keyStorageDriver))),
		PostgresDSN:         strings.TrimSpace(v.GetString(keyPostgresDSN)),
		PostgresAutoMigrate: v.GetBool(keyPostgresAutoMigrate),
		KafkaBrokers:        strings.TrimSpace(v.GetString(keyKafkaBrokers)),
		KafkaStatusTopic:    strings.TrimSpace(v.GetString(keyKafkaStatusTopic)),
		PublishMaxAttempts:  v.GetInt(keyPublishMaxAttempts),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))),
		LogFormat:           strings.ToLower(strings.TrimSpace(v.GetString(keyLogFormat))),
		ShutdownTimeout:     v.GetDuration(keyShutdownTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault(keyHTTPAddr, cfg.HTTPAddr)
	v.SetDefault(keyGRPCAddr, cfg.GRPCAddr)
	v.SetDefault(keyMetricsAddr, cfg.MetricsAddr)
	v.SetDefault(keyStorageDriver, cfg.StorageDriver)
	v.SetDefault(keyPostgresDSN, cfg.PostgresDSN)
	v.SetDefault(keyPostgresAutoMigrate, cfg.PostgresAutoMigrate)
	v.SetDefault(keyKafkaBrokers, cfg.KafkaBrokers)
	v.SetDefault(keyKafkaStatusTopic, cfg.KafkaStatusTopic)
	v.SetDefault(keyPublishMaxAttempts, cfg.PublishMaxAttempts)
	v.SetDefault(keyLogLevel, cfg.LogLevel)
	v.SetDefault(keyLogFormat, cfg.LogFormat)
	v.SetDefault(keyShutdownTimeout, cfg.ShutdownTimeout)
}

// Validate проверяет согласованность настроек и возвращает все найденные ошибки.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc address is required"))
	}
	if c.MetricsAddr == "" {
		errs = append(errs, errors.New("metrics address is required"))
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	if c.KafkaBrokers != "" && c.KafkaStatusTopic == "" {
		errs = append(errs, errors.New("kafka status topic is required when brokers are set"))
	}
	if c.PublishMaxAttempts < 1 {
		errs = append(errs, errors.New("publish max attempts must be at least 1"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Brokers разбирает KafkaBrokers в список, отбрасывая пустые элементы.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
