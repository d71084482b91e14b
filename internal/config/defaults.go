package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "sentencia"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisTTL  = 30 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "sentencia-group"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "sentencias"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 4

	DefaultContextRadius = 50
)

// Default calibration values for the risk weighting engine.
const (
	DefaultHighWeight      = 3.0
	DefaultMediumWeight    = 2.0
	DefaultLowWeight       = 1.0
	DefaultHighThreshold   = 100.0
	DefaultMediumThreshold = 50.0
	DefaultTSBoost         = 0.5
	DefaultTSJBoost        = 0.2
)

// Default calibration values for the outcome predictor.
const (
	DefaultTSWeight          = 1.5
	DefaultTSJWeight         = 1.2
	DefaultOtherWeight       = 1.0
	DefaultMinReliableSample = 3
	DefaultUncertaintyFactor = 0.3
	DefaultClampHighTrigger  = 0.90
	DefaultClampHighValue    = 0.85
	DefaultClampLowTrigger   = 0.10
	DefaultClampLowValue     = 0.15
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = DefaultRedisTTL
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}

	// ── Calibration ───────────────────────────────────────────────────────────
	applyCalibrationDefaults(&cfg.Calibration)
}

// DefaultCalibration returns the calibration block with every tunable at its
// production default.
func DefaultCalibration() CalibrationConfig {
	var c CalibrationConfig
	applyCalibrationDefaults(&c)
	return c
}

func applyCalibrationDefaults(c *CalibrationConfig) {
	r := &c.Risk
	if r.HighWeight == 0 {
		r.HighWeight = DefaultHighWeight
	}
	if r.MediumWeight == 0 {
		r.MediumWeight = DefaultMediumWeight
	}
	if r.LowWeight == 0 {
		r.LowWeight = DefaultLowWeight
	}
	if r.HighThreshold == 0 {
		r.HighThreshold = DefaultHighThreshold
	}
	if r.MediumThreshold == 0 {
		r.MediumThreshold = DefaultMediumThreshold
	}
	if r.TSBoost == 0 {
		r.TSBoost = DefaultTSBoost
	}
	if r.TSJBoost == 0 {
		r.TSJBoost = DefaultTSJBoost
	}

	p := &c.Prediction
	if p.TSWeight == 0 {
		p.TSWeight = DefaultTSWeight
	}
	if p.TSJWeight == 0 {
		p.TSJWeight = DefaultTSJWeight
	}
	if p.OtherWeight == 0 {
		p.OtherWeight = DefaultOtherWeight
	}
	if p.MinReliableSample == 0 {
		p.MinReliableSample = DefaultMinReliableSample
	}
	if p.UncertaintyFactor == 0 {
		p.UncertaintyFactor = DefaultUncertaintyFactor
	}
	if p.ClampHighTrigger == 0 {
		p.ClampHighTrigger = DefaultClampHighTrigger
	}
	if p.ClampHighValue == 0 {
		p.ClampHighValue = DefaultClampHighValue
	}
	if p.ClampLowTrigger == 0 {
		p.ClampLowTrigger = DefaultClampLowTrigger
	}
	if p.ClampLowValue == 0 {
		p.ClampLowValue = DefaultClampLowValue
	}

	if c.ContextRadius == 0 {
		c.ContextRadius = DefaultContextRadius
	}
}
