package app

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is loaded from defaults, an optional authlab.yaml, AUTHLAB_*
// environment variables and command flags, in increasing precedence.
type Config struct {
	Database    string `mapstructure:"database"`     // SQLite file
	ForeignKeys bool   `mapstructure:"foreign_keys"` // PRAGMA foreign_keys for every connection
	SigningKey  string `mapstructure:"signing_key"`  // PEM written by generate, read by validate and serve

	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Generate   GenerateConfig `mapstructure:"generate"`
	Validation ValidateConfig `mapstructure:"validate"`
	Analyze    AnalyzeConfig  `mapstructure:"analyze"`
	Server     ServerConfig   `mapstructure:"server"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
	S3         S3Config       `mapstructure:"s3"`
}

type GenerateConfig struct {
	Seed             uint64        `mapstructure:"seed"`
	Users            int           `mapstructure:"users"`
	Start            string        `mapstructure:"start"` // YYYY-MM-DD or RFC 3339
	End              string        `mapstructure:"end"`
	ATOScenarios     int           `mapstructure:"ato_scenarios"`
	Noise            float64       `mapstructure:"noise"`
	Orphans          bool          `mapstructure:"orphans"`
	Argon2Memory     uint32        `mapstructure:"argon2_memory"` // KiB
	Argon2Iterations uint32        `mapstructure:"argon2_iterations"`
	Issuer           string        `mapstructure:"issuer"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
}

type ValidateConfig struct {
	MaxSamples int `mapstructure:"max_samples"`
}

type AnalyzeConfig struct {
	ATOWindow      time.Duration `mapstructure:"ato_window"`
	ATOMinFailures int           `mapstructure:"ato_min_failures"`
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
	RevalidateInterval  time.Duration `mapstructure:"revalidate_interval"`
}

type PostgresConfig struct {
	DSN     string `mapstructure:"dsn"`
	Replace bool   `mapstructure:"replace"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	CreateBucket    bool   `mapstructure:"create_bucket"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database", "authlab.db")
	v.SetDefault("foreign_keys", true)
	v.SetDefault("signing_key", "authlab.pem")
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("generate.seed", 42)
	v.SetDefault("generate.users", 200)
	v.SetDefault("generate.start", "2024-01-01")
	v.SetDefault("generate.end", "2024-04-01")
	v.SetDefault("generate.ato_scenarios", 5)
	v.SetDefault("generate.noise", 0.0)
	v.SetDefault("generate.orphans", false)
	v.SetDefault("generate.argon2_memory", 19*1024)
	v.SetDefault("generate.argon2_iterations", 2)
	v.SetDefault("generate.issuer", "authlab")
	v.SetDefault("generate.session_ttl", 12*time.Hour)

	v.SetDefault("validate.max_samples", 10)

	v.SetDefault("analyze.ato_window", 6*time.Hour)
	v.SetDefault("analyze.ato_min_failures", 5)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_grace_period", 10*time.Second)
	v.SetDefault("server.revalidate_interval", 5*time.Minute)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.replace", false)

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "authlab")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.create_bucket", false)
}

// flagKeys maps command flags to config keys. A flag only overrides the
// config when it was set on the command line.
var flagKeys = map[string]string{
	"database":     "database",
	"foreign-keys": "foreign_keys",
	"signing-key":  "signing_key",
	"log-level":    "log_level",
	"log-format":   "log_format",

	"seed":              "generate.seed",
	"users":             "generate.users",
	"start":             "generate.start",
	"end":               "generate.end",
	"ato":               "generate.ato_scenarios",
	"noise":             "generate.noise",
	"orphans":           "generate.orphans",
	"argon2-memory":     "generate.argon2_memory",
	"argon2-iterations": "generate.argon2_iterations",

	"max-samples": "validate.max_samples",

	"ato-window":       "analyze.ato_window",
	"ato-min-failures": "analyze.ato_min_failures",

	"port":                "server.port",
	"revalidate-interval": "server.revalidate_interval",

	"dsn":     "postgres.dsn",
	"replace": "postgres.replace",

	"bucket":        "s3.bucket",
	"prefix":        "s3.prefix",
	"region":        "s3.region",
	"endpoint":      "s3.endpoint",
	"create-bucket": "s3.create_bucket",
}

// LoadConfig resolves the configuration for a parsed flag set. An explicit
// --config file must exist; the default authlab.yaml is optional.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTHLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("authlab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings every command shares. Command specific
// sections are validated by the command that uses them.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Database, validation.Required.Error("database path is required")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
	)
}

func (g GenerateConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Users, validation.Required, validation.Min(1)),
		validation.Field(&g.Start, validation.Required, validation.By(isDate)),
		validation.Field(&g.End, validation.Required, validation.By(isDate)),
		validation.Field(&g.ATOScenarios, validation.Min(0), validation.Max(g.Users)),
		validation.Field(&g.Noise, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&g.Argon2Memory, validation.Required, validation.Min(uint32(8))),
		validation.Field(&g.Argon2Iterations, validation.Required),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.RevalidateInterval, validation.Required, validation.Min(time.Second)),
	)
}

func (p PostgresConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required.Error("postgres dsn is required")),
	)
}

func (s S3Config) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Bucket, validation.Required.Error("s3 bucket is required")),
		validation.Field(&s.Region, validation.Required),
		validation.Field(&s.Endpoint, is.URL),
		validation.Field(&s.SecretAccessKey, validation.By(func(value any) error {
			if s.AccessKeyID != "" && value.(string) == "" {
				return fmt.Errorf("required with access_key_id")
			}
			return nil
		})),
	)
}

func isDate(value any) error {
	_, err := parseDate(value.(string))
	return err
}

// parseDate accepts a plain date (midnight UTC) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be YYYY-MM-DD or RFC 3339")
	}
	return t.UTC(), nil
}
