// Package config provides configuration management for the UX writing lint service.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (nested keys joined with "_": AI_PROVIDER, SERVER_PORT)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/rules"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Rules      RulesConfig      `mapstructure:"rules"`
	Classify   ClassifyConfig   `mapstructure:"classify"`
	AI         AIConfig         `mapstructure:"ai"`
	Spellcheck SpellcheckConfig `mapstructure:"spellcheck"`
	Security   SecurityConfig   `mapstructure:"security"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSOrigins lists allowed browser origins. Design-tool plugin iframes
	// send the literal origin "null".
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// RulesConfig locates the rule tables. An empty Dir uses the embedded tables.
type RulesConfig struct {
	Dir              string `mapstructure:"dir"`
	TermFile         string `mapstructure:"term_file"`
	WordFile         string `mapstructure:"word_file"`
	StyleFile        string `mapstructure:"style_file"`
	TitlePunctuation string `mapstructure:"title_punctuation"` // require, forbid or off; overrides the style guide
}

// Source converts the section into a rules.Source.
func (c RulesConfig) Source() rules.Source {
	return rules.Source{
		Dir:              c.Dir,
		TermFile:         c.TermFile,
		WordFile:         c.WordFile,
		StyleFile:        c.StyleFile,
		TitlePunctuation: rules.PunctuationPolicy(c.TitlePunctuation),
	}
}

// ClassifyConfig tunes the kind classifier.
type ClassifyConfig struct {
	DangerRedNibbleMin int `mapstructure:"danger_red_nibble_min"`
}

// AIConfig selects the AI suggestion backend.
type AIConfig struct {
	Provider string        `mapstructure:"provider"` // local, http, openai or gemini
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SpellcheckConfig configures the spell-check backend. An empty endpoint
// checks with local rules only.
type SpellcheckConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
	CacheSize int           `mapstructure:"cache_size"`
}

// SecurityConfig contains security-related settings.
// An empty JWTSigningKey disables bearer authentication.
type SecurityConfig struct {
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
	JWTIssuer     string `mapstructure:"jwt_issuer"`
}

// AuthEnabled reports whether API routes require a bearer token.
func (c SecurityConfig) AuthEnabled() bool { return c.JWTSigningKey != "" }

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	GeneralPoolSize int `mapstructure:"general_pool_size"`
	BackendPoolSize int `mapstructure:"backend_pool_size"`
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from the default search paths and the environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path, or from the default search paths
// when path is empty, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ux-writing-lint")
	}

	// Maps nested config: ai.api_key → AI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", "AI_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	cfg.warnIncomplete()

	return &cfg, nil
}

func (c *Config) normalize() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if _, err := rules.ParsePunctuationPolicy(c.Rules.TitlePunctuation); err != nil {
		return fmt.Errorf("rules.title_punctuation: %w", err)
	}
	if n := c.Classify.DangerRedNibbleMin; n < 0 || n > 0xF {
		return fmt.Errorf("classify.danger_red_nibble_min must be within 0..15, got %d", n)
	}
	switch c.AI.Provider {
	case "local", "openai", "gemini":
	case "http":
		if c.AI.Endpoint == "" {
			return fmt.Errorf("ai.endpoint is required when ai.provider is http")
		}
	default:
		return fmt.Errorf("ai.provider must be one of local, http, openai, gemini; got %q", c.AI.Provider)
	}
	for name, d := range map[string]time.Duration{
		"ai.timeout":          c.AI.Timeout,
		"spellcheck.timeout":  c.Spellcheck.Timeout,
		"spellcheck.cooldown": c.Spellcheck.Cooldown,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// warnIncomplete logs settings that load but will not work as intended.
func (c *Config) warnIncomplete() {
	if (c.AI.Provider == "openai" || c.AI.Provider == "gemini") && c.AI.APIKey == "" {
		logBootstrapWarn("ai.api_key is empty; AI suggestions will fall back to local rules if the provider rejects the call",
			zap.String("provider", c.AI.Provider))
	}
	if !c.Security.AuthEnabled() {
		logBootstrapWarn("security.jwt_signing_key is empty; API routes accept unauthenticated requests")
	}
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"null", "https://www.figma.com"})

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Rules (embedded tables when dir is empty)
	v.SetDefault("rules.dir", "")
	v.SetDefault("rules.term_file", "02_term_field_mapping.csv")
	v.SetDefault("rules.word_file", "05_ux_word_ent_rules.csv")
	v.SetDefault("rules.style_file", "style_guide.yaml")
	v.SetDefault("rules.title_punctuation", "")

	// Classifier
	v.SetDefault("classify.danger_red_nibble_min", 0xD)

	// AI bridge
	v.SetDefault("ai.provider", "local")
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout", "15s")

	// Spell check
	v.SetDefault("spellcheck.endpoint", "")
	v.SetDefault("spellcheck.timeout", "5s")
	v.SetDefault("spellcheck.cooldown", "60s")
	v.SetDefault("spellcheck.cache_size", 512)

	// Security
	v.SetDefault("security.jwt_signing_key", "")
	v.SetDefault("security.jwt_issuer", "ux-writing-lint")

	// Worker pools
	v.SetDefault("worker.general_pool_size", 32)
	v.SetDefault("worker.backend_pool_size", 8)
}
