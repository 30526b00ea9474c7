package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	log "github.com/xuperchain/log15"

	"github.com/emenda-labs/libstub/core/logs"
)

// EnvPrefix prefixes every environment variable read by Load, for example
// LIBSTUB_MIN_OS or LIBSTUB_LOG_LEVEL.
const EnvPrefix = "LIBSTUB"

// Output formats for dump.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the defaults for resolution and output. Command-line flags
// take precedence over every field.
type Config struct {
	Arch   []string       `mapstructure:"arch"`
	Exact  bool           `mapstructure:"exact"`
	MinOS  string         `mapstructure:"min_os"`
	Format string         `mapstructure:"format"`
	Log    logs.LogConfig `mapstructure:"log"`
}

// GetDefConf returns the built-in defaults.
func GetDefConf() *Config {
	return &Config{
		Arch:   []string{"x86_64"},
		Exact:  false,
		MinOS:  "",
		Format: FormatText,
		Log:    logs.GetDefLogConf(),
	}
}

// Load reads .env, then cfgFile when it is not empty, then LIBSTUB_*
// environment variables, each layer overriding the previous one.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	def := GetDefConf()
	v := viper.New()
	v.SetDefault("arch", def.Arch)
	v.SetDefault("exact", def.Exact)
	v.SetDefault("min_os", def.MinOS)
	v.SetDefault("format", def.Format)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("config file set error. path: %s: %w", cfgFile, err)
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed. path: %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", c.Format, FormatText, FormatJSON, FormatYAML)
	}
	switch c.Log.Format {
	case logs.FormatLogfmt, logs.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := log.LvlFromString(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}
