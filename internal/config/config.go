package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// DATESIM_ARTIFACTS_DIR overrides artifacts.dir
const EnvPrefix = "DATESIM"

// Artifact source kinds
const (
	SourceFile = "file"
	SourceS3   = "s3"
)

// Config is the complete server configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Chart     ChartConfig     `mapstructure:"chart"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ArtifactsConfig says where the model and baseline live
type ArtifactsConfig struct {
	Source   string   `mapstructure:"source"`
	Dir      string   `mapstructure:"dir"`
	Model    string   `mapstructure:"model"`
	Baseline string   `mapstructure:"baseline"`
	S3       S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// RateLimitConfig limits prediction requests per client IP. An empty
// RedisAddr keeps the limiter in memory.
type RateLimitConfig struct {
	PerMinute       int    `mapstructure:"per_minute"`
	BurstMultiplier int    `mapstructure:"burst_multiplier"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ChartConfig points the chart page at the echarts script host
type ChartConfig struct {
	AssetsHost string `mapstructure:"assets_host"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("artifacts.source", SourceFile)
	v.SetDefault("artifacts.dir", "./data")
	v.SetDefault("artifacts.model", "dating_model.json")
	v.SetDefault("artifacts.baseline", "baseline.csv")
	v.SetDefault("artifacts.s3.endpoint", "")
	v.SetDefault("artifacts.s3.region", "us-east-1")
	v.SetDefault("artifacts.s3.bucket", "")
	v.SetDefault("artifacts.s3.prefix", "")
	v.SetDefault("artifacts.s3.access_key", "")
	v.SetDefault("artifacts.s3.secret_key", "")
	v.SetDefault("ratelimit.per_minute", 120)
	v.SetDefault("ratelimit.burst_multiplier", 2)
	v.SetDefault("ratelimit.redis_addr", "")
	v.SetDefault("ratelimit.redis_password", "")
	v.SetDefault("ratelimit.redis_db", 0)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("chart.assets_host", "https://go-echarts.github.io/go-echarts-assets/assets/")
}

// Load reads an optional .env file, an optional YAML config file at path and
// DATESIM_* environment overrides, in increasing priority.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port == "" {
		problems = append(problems, "server.port is empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.mode %q is not one of debug, release, test", c.Server.Mode))
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "server.shutdown_timeout must be positive")
	}

	switch c.Artifacts.Source {
	case SourceFile:
		if c.Artifacts.Dir == "" {
			problems = append(problems, "artifacts.dir is empty")
		}
	case SourceS3:
		if c.Artifacts.S3.Bucket == "" {
			problems = append(problems, "artifacts.s3.bucket is empty")
		}
	default:
		problems = append(problems, fmt.Sprintf("artifacts.source %q is not one of file, s3", c.Artifacts.Source))
	}
	if c.Artifacts.Model == "" {
		problems = append(problems, "artifacts.model is empty")
	}
	if c.Artifacts.Baseline == "" {
		problems = append(problems, "artifacts.baseline is empty")
	}

	if c.RateLimit.PerMinute <= 0 {
		problems = append(problems, "ratelimit.per_minute must be positive")
	}
	if c.RateLimit.BurstMultiplier <= 0 {
		problems = append(problems, "ratelimit.burst_multiplier must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps log.level to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
