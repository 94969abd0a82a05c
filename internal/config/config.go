// Package config loads psgrade settings from psgrade.yaml, PSGRADE_*
// environment variables and built-in defaults, in increasing order of
// precedence for the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Rubric RubricConfig `mapstructure:"rubric"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Review ReviewConfig `mapstructure:"review"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RubricConfig points at a rubric overlay file. Empty uses the built-in tables.
type RubricConfig struct {
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	BodyLimit    int64    `mapstructure:"body_limit"`
}

// ReviewConfig selects the LLM second-opinion backend ("api" or "cli")
type ReviewConfig struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
}

// Load reads the configuration. When file is empty the default search
// paths are used and a missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("psgrade")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "psgrade"))
		}
	}

	v.SetEnvPrefix("PSGRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Rubric.Path = expandHome(cfg.Rubric.Path)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("rubric.path", "")

	v.SetDefault("store.path", "~/.local/share/psgrade/statements.db")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.body_limit", 1<<20)

	v.SetDefault("review.backend", "api")
	v.SetDefault("review.model", "")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
