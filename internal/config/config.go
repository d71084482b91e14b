// Package config provides configuration loading, defaults, and validation for
// the Sentencia-Intelligence platform.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // "debug" or "release"
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

// DSN renders the config as a pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds redis cache settings.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig holds message broker settings.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"`
}

// MinIOConfig holds object storage settings for raw judgment documents.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetries  int `mapstructure:"max_retries"`
}

// DictionaryConfig holds phrase dictionary source settings.  When Path is
// empty the embedded default dictionary is used.
type DictionaryConfig struct {
	Path        string `mapstructure:"path"`
	WatchReload bool   `mapstructure:"watch_reload"`
}

// RiskCalibration holds every tunable of the risk weighting engine.
type RiskCalibration struct {
	HighWeight      float64 `mapstructure:"high_weight"`
	MediumWeight    float64 `mapstructure:"medium_weight"`
	LowWeight       float64 `mapstructure:"low_weight"`
	HighThreshold   float64 `mapstructure:"high_threshold"`
	MediumThreshold float64 `mapstructure:"medium_threshold"`
	TSBoost         float64 `mapstructure:"ts_boost"`
	TSJBoost        float64 `mapstructure:"tsj_boost"`
}

// PredictionCalibration holds every tunable of the outcome predictor.
type PredictionCalibration struct {
	TSWeight          float64 `mapstructure:"ts_weight"`
	TSJWeight         float64 `mapstructure:"tsj_weight"`
	OtherWeight       float64 `mapstructure:"other_weight"`
	MinReliableSample int     `mapstructure:"min_reliable_sample"`
	UncertaintyFactor float64 `mapstructure:"uncertainty_factor"`
	ClampHighTrigger  float64 `mapstructure:"clamp_high_trigger"`
	ClampHighValue    float64 `mapstructure:"clamp_high_value"`
	ClampLowTrigger   float64 `mapstructure:"clamp_low_trigger"`
	ClampLowValue     float64 `mapstructure:"clamp_low_value"`
}

// CalibrationConfig groups all analysis tunables.
type CalibrationConfig struct {
	Risk          RiskCalibration       `mapstructure:"risk"`
	Prediction    PredictionCalibration `mapstructure:"prediction"`
	ContextRadius int                   `mapstructure:"context_radius"`
}

// Config is the root configuration of the platform.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Log         LogConfig         `mapstructure:"log"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Dictionary  DictionaryConfig  `mapstructure:"dictionary"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
}

// Validate checks cross-field constraints after defaults have been applied.
// It returns the first violation found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("config: server.mode %q must be \"debug\" or \"release\"", c.Server.Mode)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns %d must be positive", c.Database.MaxConns)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency %d must be positive", c.Worker.Concurrency)
	}
	return c.Calibration.Validate()
}

// Validate checks the calibration tunables for internal consistency.
func (c *CalibrationConfig) Validate() error {
	r := c.Risk
	if r.HighWeight <= 0 || r.MediumWeight <= 0 || r.LowWeight <= 0 {
		return fmt.Errorf("config: calibration.risk tier weights must be positive (high=%g medium=%g low=%g)",
			r.HighWeight, r.MediumWeight, r.LowWeight)
	}
	if r.MediumThreshold <= 0 {
		return fmt.Errorf("config: calibration.risk.medium_threshold %g must be positive", r.MediumThreshold)
	}
	if r.HighThreshold <= r.MediumThreshold {
		return fmt.Errorf("config: calibration.risk.high_threshold %g must exceed medium_threshold %g",
			r.HighThreshold, r.MediumThreshold)
	}
	if r.TSBoost < 0 || r.TSJBoost < 0 {
		return fmt.Errorf("config: calibration.risk instance boosts must be non-negative (ts=%g tsj=%g)",
			r.TSBoost, r.TSJBoost)
	}

	p := c.Prediction
	if p.TSWeight <= 0 || p.TSJWeight <= 0 || p.OtherWeight <= 0 {
		return fmt.Errorf("config: calibration.prediction instance weights must be positive (ts=%g tsj=%g other=%g)",
			p.TSWeight, p.TSJWeight, p.OtherWeight)
	}
	if p.MinReliableSample < 1 {
		return fmt.Errorf("config: calibration.prediction.min_reliable_sample %d must be positive", p.MinReliableSample)
	}
	if p.UncertaintyFactor <= 0 || p.UncertaintyFactor >= 1 {
		return fmt.Errorf("config: calibration.prediction.uncertainty_factor %g must be in (0, 1)", p.UncertaintyFactor)
	}
	if p.ClampHighTrigger <= p.ClampHighValue {
		return fmt.Errorf("config: calibration.prediction.clamp_high_trigger %g must exceed clamp_high_value %g",
			p.ClampHighTrigger, p.ClampHighValue)
	}
	if p.ClampLowTrigger >= p.ClampLowValue {
		return fmt.Errorf("config: calibration.prediction.clamp_low_trigger %g must be below clamp_low_value %g",
			p.ClampLowTrigger, p.ClampLowValue)
	}
	if c.ContextRadius < 0 {
		return fmt.Errorf("config: calibration.context_radius %d must be non-negative", c.ContextRadius)
	}
	return nil
}
