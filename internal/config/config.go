package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sundayezeilo/passwordgen/internal/generator"
	"github.com/sundayezeilo/passwordgen/internal/idgen"
)

type Config struct {
	Server        ServerConfig
	App           AppConfig
	Generator     GeneratorConfig
	Passphrase    PassphraseConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
	AllowedOrigins  []string      `envconfig:"SERVER_ALLOWED_ORIGINS"`
}

func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if s.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func (a *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[a.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, production, or test)", a.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[a.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", a.LogLevel)
	}
	return nil
}

// GeneratorConfig holds the limits and character sets applied to every
// password request.
type GeneratorConfig struct {
	SymbolSet      string `envconfig:"GEN_SYMBOL_SET" default:"!@#$%^&*()-_=+[]{};:,.<>?"`
	SimilarChars   string `envconfig:"GEN_SIMILAR_CHARS" default:"O0Il1|"`
	AmbiguousChars string `envconfig:"GEN_AMBIGUOUS_CHARS" default:"{}[]()/'\"~,;:.<>"`
	MinLength      int    `envconfig:"GEN_MIN_LENGTH" default:"8"`
	MaxLength      int    `envconfig:"GEN_MAX_LENGTH" default:"256"`
	MaxCount       int    `envconfig:"GEN_MAX_COUNT" default:"50"`
	BatchIDVersion string `envconfig:"GEN_BATCH_ID_VERSION" default:"7"`
}

func (g *GeneratorConfig) Validate() error {
	if g.SymbolSet == "" {
		return fmt.Errorf("symbol set cannot be empty")
	}
	if g.MinLength < 1 {
		return fmt.Errorf("min length must be at least 1")
	}
	if g.MaxLength < g.MinLength {
		return fmt.Errorf("max length (%d) cannot be less than min length (%d)", g.MaxLength, g.MinLength)
	}
	if g.MaxCount < 1 {
		return fmt.Errorf("max count must be at least 1")
	}
	if _, err := idgen.ParseVersion(g.BatchIDVersion); err != nil {
		return fmt.Errorf("invalid batch id version: %w", err)
	}
	return nil
}

// IDVersion returns the parsed batch ID version. Validate must have passed.
func (g *GeneratorConfig) IDVersion() idgen.Version {
	v, _ := idgen.ParseVersion(g.BatchIDVersion)
	return v
}

const (
	WordListSourceFile     = "file"
	WordListSourcePostgres = "postgres"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type PassphraseConfig struct {
	Source    string `envconfig:"WORDLIST_SOURCE" default:"file"`
	Path      string `envconfig:"WORDLIST_PATH" default:"assets/wordlist/words.txt"`
	Table     string `envconfig:"WORDLIST_TABLE" default:"words"`
	MinWords  int    `envconfig:"PASSPHRASE_MIN_WORDS" default:"3"`
	MaxWords  int    `envconfig:"PASSPHRASE_MAX_WORDS" default:"8"`
	Separator string `envconfig:"PASSPHRASE_SEPARATOR" default:"-"`
}

func (p *PassphraseConfig) Validate() error {
	switch p.Source {
	case WordListSourceFile:
		if p.Path == "" {
			return fmt.Errorf("word list path cannot be empty")
		}
	case WordListSourcePostgres:
		if !tableNamePattern.MatchString(p.Table) {
			return fmt.Errorf("invalid word list table: %q", p.Table)
		}
	default:
		return fmt.Errorf("invalid word list source: %s (must be file or postgres)", p.Source)
	}
	if p.MinWords < 1 {
		return fmt.Errorf("min words must be at least 1")
	}
	if p.MaxWords < p.MinWords {
		return fmt.Errorf("max words (%d) cannot be less than min words (%d)", p.MaxWords, p.MinWords)
	}
	return nil
}

// DatabaseConfig is only loaded when the word list lives in Postgres.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"4"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"0"`

	ConnectRetries int `envconfig:"DB_CONNECT_RETRIES" default:"3"`
}

func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("max connections must be at least 1")
	}
	if d.MinConns < 0 {
		return fmt.Errorf("min connections cannot be negative")
	}
	if d.ConnectRetries < 0 {
		return fmt.Errorf("connect retries cannot be negative")
	}
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min connections (%d) cannot exceed max connections (%d)", d.MinConns, d.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[d.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", d.SSLMode)
	}
	return nil
}

func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	ServiceName    string `envconfig:"SERVICE_NAME" default:"passwordgen"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"dev"`
}

func (o *ObservabilityConfig) Validate() error {
	if o.ServiceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	return nil
}

// Settings converts the generator and passphrase sections into the settings
// shared by every generator.
func (c *Config) Settings() generator.Settings {
	return generator.Settings{
		SymbolSet:           c.Generator.SymbolSet,
		SimilarCharacters:   c.Generator.SimilarChars,
		AmbiguousCharacters: c.Generator.AmbiguousChars,
		MinLength:           c.Generator.MinLength,
		MaxLength:           c.Generator.MaxLength,
		MaxCount:            c.Generator.MaxCount,
		Passphrase: generator.PassphraseSettings{
			WordListPath:     c.Passphrase.Path,
			MinWordCount:     c.Passphrase.MinWords,
			MaxWordCount:     c.Passphrase.MaxWords,
			DefaultSeparator: c.Passphrase.Separator,
		},
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Generator); err != nil {
		return nil, fmt.Errorf("failed to load Generator config: %w", err)
	}
	if err := cfg.Generator.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Generator config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Passphrase); err != nil {
		return nil, fmt.Errorf("failed to load Passphrase config: %w", err)
	}
	if err := cfg.Passphrase.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Passphrase config: %w", err)
	}

	if cfg.Passphrase.Source == WordListSourcePostgres {
		if err := envconfig.Process("", &cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to load Database config: %w", err)
		}
		if err := cfg.Database.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Database config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg.Observability); err != nil {
		return nil, fmt.Errorf("failed to load Observability config: %w", err)
	}
	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Observability config: %w", err)
	}

	return &cfg, nil
}
