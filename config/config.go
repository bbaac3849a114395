package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradejournal/ledger"
	"gopkg.in/yaml.v3"
)

// Config represents the complete journal configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account" mapstructure:"account"`
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
	Mentor  MentorConfig  `json:"mentor" yaml:"mentor" mapstructure:"mentor"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

// AccountConfig seeds the ledger the first time it is opened. A persisted
// account always wins over these values.
type AccountConfig struct {
	Currency       string  `json:"currency" yaml:"currency" mapstructure:"currency" validate:"required,len=3"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance" mapstructure:"initial_balance"`
}

// StorageConfig selects where trades and the account are persisted
type StorageConfig struct {
	Type   string      `json:"type" yaml:"type" mapstructure:"type" validate:"oneof=memory file sqlite redis"`
	Dir    string      `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`
	DBPath string      `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
	Redis  RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty" mapstructure:"redis"`
}

type RedisConfig struct {
	Addr      string `json:"addr,omitempty" yaml:"addr,omitempty" mapstructure:"addr"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	DB        int    `json:"db,omitempty" yaml:"db,omitempty" mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty" mapstructure:"key_prefix"`
}

// MentorConfig configures the language-model client. An empty APIKey is
// valid; analysis requests then report the key as missing.
type MentorConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model   string `json:"model" yaml:"model" mapstructure:"model" validate:"required"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout string `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to time.Duration
func (m MentorConfig) ParseTimeout() (time.Duration, error) {
	if m.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(m.Timeout)
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// the file may carry the API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if ledger.ValidateInitialBalance(c.Account.InitialBalance) != nil {
		return fmt.Errorf("account.initial_balance must be greater than 0")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	switch c.Storage.Type {
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir required for file type")
		}
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite type")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr required for redis type")
		}
	}

	if d, err := c.Mentor.ParseTimeout(); err != nil || d < 0 {
		return fmt.Errorf("mentor.timeout must be a positive duration")
	}
	return nil
}

// fieldError turns a validator failure into a message naming the config key.
func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", key, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", key, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", key, fe.Param())
	case "len":
		return fmt.Errorf("%s must be %s characters", key, fe.Param())
	}
	return fmt.Errorf("%s is invalid (%s)", key, fe.Tag())
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:       "USD",
			InitialBalance: 10000,
		},
		Storage: StorageConfig{
			Type: "file",
			Dir:  defaultDataDir(),
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "tradejournal:",
			},
		},
		Mentor: MentorConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "60s",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "tradejournal"
	}
	return ".tradejournal"
}
