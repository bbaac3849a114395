package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every override, e.g. TJ_STORAGE_TYPE=sqlite.
const EnvPrefix = "TJ"

// Credential variables read without the prefix, first match wins.
var APIKeyEnv = []string{"API_KEY", "GEMINI_API_KEY"}

// Load layers defaults, the optional config file at path and the process
// environment, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, name := range APIKeyEnv {
		if key := os.Getenv(name); key != "" {
			v.Set("mentor.api_key", key)
			break
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("account.currency", c.Account.Currency)
	v.SetDefault("account.initial_balance", c.Account.InitialBalance)

	v.SetDefault("storage.type", c.Storage.Type)
	v.SetDefault("storage.dir", c.Storage.Dir)
	v.SetDefault("storage.db_path", c.Storage.DBPath)
	v.SetDefault("storage.redis.addr", c.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", c.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", c.Storage.Redis.DB)
	v.SetDefault("storage.redis.key_prefix", c.Storage.Redis.KeyPrefix)

	v.SetDefault("mentor.api_key", c.Mentor.APIKey)
	v.SetDefault("mentor.model", c.Mentor.Model)
	v.SetDefault("mentor.base_url", c.Mentor.BaseURL)
	v.SetDefault("mentor.timeout", c.Mentor.Timeout)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)

	v.SetDefault("server.addr", c.Server.Addr)
}
