// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig               `mapstructure:"app"`
	Camunda     CamundaConfig           `mapstructure:"camunda"`
	HTTP        HTTPConfig              `mapstructure:"http"`
	Database    DatabaseConfig          `mapstructure:"database"`
	Workers     map[string]WorkerConfig `mapstructure:"workers"`
	Logging     LoggingConfig           `mapstructure:"logging"`
	Tracing     TracingConfig           `mapstructure:"tracing"`
	Scoring     ScoringConfig           `mapstructure:"scoring"`
	Weights     WeightsConfig           `mapstructure:"weights"`
	Persistence PersistenceConfig       `mapstructure:"persistence"`
	Indexing    IndexingConfig          `mapstructure:"indexing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type HTTPConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
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
	RunMigrations  bool   `mapstructure:"run_migrations"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
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

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// --- Scoring Configuration ---

type ScoringConfig struct {
	MinMessages           int `mapstructure:"min_messages"`
	EvidenceDisplayLength int `mapstructure:"evidence_display_length"`
	AnalysisTimeoutMs     int `mapstructure:"analysis_timeout_ms"`
}

// WeightsConfig controls how calibration versions are loaded and routed.
type WeightsConfig struct {
	RefreshIntervalMs int    `mapstructure:"refresh_interval_ms"`
	CacheTTLMs        int    `mapstructure:"cache_ttl_ms"`
	CanaryRouting     string `mapstructure:"canary_routing"` // random | sticky
	SeedDefault       bool   `mapstructure:"seed_default"`
}

type PersistenceConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	TimeoutMs int  `mapstructure:"timeout_ms"`
}

type IndexingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Index     string `mapstructure:"index"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}
