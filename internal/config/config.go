package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"logLevel"`
	Server      struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		MysqlDSN    string `mapstructure:"mysqlDSN"`
		AutoMigrate bool   `mapstructure:"autoMigrate"`
	} `mapstructure:"database"`
	Auth struct {
		// DefaultUserID identifies the operator requests act for when no
		// X-User-ID header is supplied by the frontend.
		DefaultUserID int64 `mapstructure:"defaultUserID"`
	} `mapstructure:"auth"`
	Webhook struct {
		WhatsAppVerifyToken  string `mapstructure:"whatsappVerifyToken"`
		InstagramVerifyToken string `mapstructure:"instagramVerifyToken"`
		// MediaBaseURL is the host media URLs for inbound image/audio
		// attachments are derived from.
		MediaBaseURL string `mapstructure:"mediaBaseURL"`
	} `mapstructure:"webhook"`
	NATS struct {
		URL           string `mapstructure:"url"`
		BufferStream  string `mapstructure:"bufferStream"`
		BufferSubject string `mapstructure:"bufferSubject"`
	} `mapstructure:"nats"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
	WorkerPools struct {
		Buffer BufferWorkerPoolConfig `mapstructure:"buffer"`
	} `mapstructure:"workerPools"`
}

// BufferWorkerPoolConfig holds configuration for the buffer publisher pool
type BufferWorkerPoolConfig struct {
	PoolSize      int           `mapstructure:"poolSize"`      // Number of workers
	QueueSize     int           `mapstructure:"queueSize"`     // Task queue buffer size
	ExpiryTime    time.Duration `mapstructure:"expiryTime"`    // Idle worker expiry time
	SweepInterval time.Duration `mapstructure:"sweepInterval"` // How often unprocessed rows are re-queued
	SweepBatch    int           `mapstructure:"sweepBatch"`    // Max rows picked up per sweep
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("environment", "development")
	v.SetDefault("logLevel", "info")
	v.SetDefault("server.port", 3001)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("auth.defaultUserID", 1)
	v.SetDefault("database.autoMigrate", true)
	v.SetDefault("webhook.mediaBaseURL", "https://media.cebimedya.com")
	v.SetDefault("nats.bufferStream", "wa_buffer")
	v.SetDefault("nats.bufferSubject", "v1.buffer.whatsapp")

	// Buffer worker defaults
	v.SetDefault("workerPools.buffer.poolSize", 4)
	v.SetDefault("workerPools.buffer.queueSize", 1024)
	v.SetDefault("workerPools.buffer.expiryTime", time.Minute)
	v.SetDefault("workerPools.buffer.sweepInterval", 30*time.Second)
	v.SetDefault("workerPools.buffer.sweepBatch", 100)

	// Config file settings
	v.SetConfigName("default")
	v.SetConfigType("yaml")

	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("/etc/messaging-dashboard")

	if err := v.ReadInConfig(); err != nil {
		// It's ok if config file is not found, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, Config{})

	// Read directly from ENV for critical values
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		v.Set("database.mysqlDSN", dsn)
	}
	if lgLevel := os.Getenv("LOG_LEVEL"); lgLevel != "" {
		v.Set("logLevel", lgLevel)
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		v.Set("nats.url", url)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

// bindEnvs recursively binds environment variables to config struct fields
func bindEnvs(v *viper.Viper, cfg interface{}, parts ...string) {
	ifv := reflect.ValueOf(cfg)
	ift := reflect.TypeOf(cfg)
	for i := 0; i < ift.NumField(); i++ {
		fieldVal := ifv.Field(i)
		fieldType := ift.Field(i)

		tag := fieldType.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		path := append(parts, tag)
		key := strings.Join(path, ".")

		if fieldType.Type.Kind() == reflect.Struct {
			bindEnvs(v, fieldVal.Interface(), path...)
			continue
		}

		_ = v.BindEnv(key)
	}
}
