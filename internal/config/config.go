package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audit     AuditConfig     `yaml:"audit"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Guard     GuardConfig     `yaml:"guard"`
	Probe     ProbeConfig     `yaml:"probe"`
}

type ServerConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	GracefulShutdown   time.Duration `yaml:"graceful_shutdown"`
	MaxBodyBytes       int64         `yaml:"max_body_bytes"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

type TelemetryConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// MetricsPort serves /metrics on its own listener; 0 mounts it on the
	// main router.
	MetricsPort int `yaml:"metrics_port"`
}

type AuditConfig struct {
	Capacity     int `yaml:"capacity"`
	DefaultLimit int `yaml:"default_limit"`
}

type QuizConfig struct {
	Seed uint64 `yaml:"seed"`
}

type GuardConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BundlePath        string        `yaml:"bundle_path"`
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`
	MaxDatasetSize    int           `yaml:"max_dataset_size"`
	MaxAbsOperand     float64       `yaml:"max_abs_operand"`
}

type ProbeConfig struct {
	GRPCPort int `yaml:"grpc_port"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               5000,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        60 * time.Second,
			GracefulShutdown:   15 * time.Second,
			MaxBodyBytes:       1 << 20,
			CORSAllowedOrigins: []string{"*"},
		},
		Telemetry: TelemetryConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
		Audit: AuditConfig{
			Capacity:     100,
			DefaultLimit: 20,
		},
		Guard: GuardConfig{
			Enabled:           true,
			EvaluationTimeout: 100 * time.Millisecond,
			MaxDatasetSize:    100_000,
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if c.Audit.Capacity <= 0 {
		errs = append(errs, errors.New("audit.capacity must be positive"))
	}
	if c.Audit.DefaultLimit <= 0 {
		errs = append(errs, errors.New("audit.default_limit must be positive"))
	}
	if c.Guard.MaxDatasetSize < 0 || c.Guard.MaxAbsOperand < 0 {
		errs = append(errs, errors.New("guard limits cannot be negative"))
	}
	if c.Telemetry.MetricsPort < 0 || c.Probe.GRPCPort < 0 {
		errs = append(errs, errors.New("ports cannot be negative"))
	}
	return errors.Join(errs...)
}
