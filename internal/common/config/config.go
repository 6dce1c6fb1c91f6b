// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	API           APIConfig               `mapstructure:"api"`
	Session       SessionConfig           `mapstructure:"session"`
	DataSource    DataSourceConfig        `mapstructure:"datasource"`
	Screening     ScreeningConfig         `mapstructure:"screening"`
	Search        SearchConfig            `mapstructure:"search"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Server        ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// RegistryPath points at the activity catalog used to validate job input.
	RegistryPath string `mapstructure:"registry_path"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Enabled reports whether evaluation snapshots should be persisted.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Screening Configuration ---

// APIConfig points at the recruitment platform REST API.
type APIConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Timeout   int     `mapstructure:"timeout"`    // milliseconds
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int     `mapstructure:"burst"`
}

// Session store kinds.
const (
	SessionStoreKeyring = "keyring"
	SessionStoreFile    = "file"
	SessionStoreEnv     = "env"
)

// SessionConfig selects where the bearer token lives.
type SessionConfig struct {
	Store          string `mapstructure:"store"`
	KeyringService string `mapstructure:"keyring_service"`
	FilePath       string `mapstructure:"file_path"`
	Token          string `mapstructure:"token"` // env store only
}

// Data source modes.
const (
	DataSourceLive    = "live"
	DataSourceFixture = "fixture"
)

// DataSourceConfig picks between the live API and a fixture file.
type DataSourceConfig struct {
	Mode             string `mapstructure:"mode"`
	FixturePath      string `mapstructure:"fixture_path"`
	QuestionCacheTTL int    `mapstructure:"question_cache_ttl"` // seconds, 0 disables caching
}

type ScreeningConfig struct {
	TopSkills     int     `mapstructure:"top_skills"`
	BulkRateLimit float64 `mapstructure:"bulk_rate_limit"` // status updates per second, 0 = unpaced
	PageSize      int     `mapstructure:"page_size"`
	WriteBack     bool    `mapstructure:"write_back"` // patch computed scores onto applications
}

type SearchConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	StatisticsIndex string `mapstructure:"statistics_index"`
}

// NotificationConfig holds settings for bulk action notifications.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	AWS     struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SNS struct {
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"ses"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
