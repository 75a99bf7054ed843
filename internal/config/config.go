package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Bayzat   BayzatConfig   `yaml:"bayzat"`
	Workers  WorkersConfig  `yaml:"workers"`
	Secrets  SecretsConfig  `yaml:"secrets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	PoolSize    int    `yaml:"pool_size"`
	ImportQueue string `yaml:"import_queue"`
	SyncQueue   string `yaml:"sync_queue"`
	DLQSuffix   string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// BayzatConfig holds the sync pipeline's global knobs. Per-company
// credentials live in the bayzat_configs table, not here.
type BayzatConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	ChunkSize      int           `yaml:"chunk_size"`
	RateLimitDelay time.Duration `yaml:"rate_limit_delay"`
	RetryCeiling   int           `yaml:"retry_ceiling"`
}

type WorkersConfig struct {
	Import ImportWorkerConfig `yaml:"import"`
	Sync   SyncWorkerConfig   `yaml:"sync"`
	Retry  RetryWorkerConfig  `yaml:"retry"`
}

type ImportWorkerConfig struct {
	Count           int `yaml:"count"`
	InsertBatchSize int `yaml:"insert_batch_size"`
}

type SyncWorkerConfig struct {
	Count int `yaml:"count"`
}

type RetryWorkerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	RunOnStart bool          `yaml:"run_on_start"`
}

type SecretsConfig struct {
	// Key is the hex-encoded 32-byte AES key used for Bayzat API keys.
	Key string `yaml:"key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Bayzat.Timeout <= 0 {
		c.Bayzat.Timeout = 30 * time.Second
	}
	if c.Bayzat.ChunkSize <= 0 {
		c.Bayzat.ChunkSize = 20
	}
	if c.Bayzat.RateLimitDelay <= 0 {
		c.Bayzat.RateLimitDelay = time.Second
	}
	if c.Bayzat.RetryCeiling <= 0 {
		c.Bayzat.RetryCeiling = 5
	}
	if c.Workers.Import.Count <= 0 {
		c.Workers.Import.Count = 2
	}
	if c.Workers.Import.InsertBatchSize <= 0 {
		c.Workers.Import.InsertBatchSize = 500
	}
	if c.Workers.Sync.Count <= 0 {
		c.Workers.Sync.Count = 4
	}
	if c.Workers.Retry.Interval <= 0 {
		c.Workers.Retry.Interval = 15 * time.Minute
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = 32 << 20
	}
	if c.Redis.ImportQueue == "" {
		c.Redis.ImportQueue = "attendance:imports"
	}
	if c.Redis.SyncQueue == "" {
		c.Redis.SyncQueue = "attendance:sync"
	}
	if c.Redis.DLQSuffix == "" {
		c.Redis.DLQSuffix = ":dlq"
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

// MigrateURL is the DSN form golang-migrate's mysql driver expects.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
