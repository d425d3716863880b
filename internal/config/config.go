// Package config loads the configuration of the drivestorage command.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration, e.g. DRIVESTORAGE_LOG_LEVEL.
const EnvPrefix = "drivestorage"

// Filename is the name, without extension, of the configuration file searched in the default locations.
const Filename = ".drivestorage"

// Config is the configuration of the drivestorage command.
type Config struct {
	// Account is the account used when a command is given an account-local path.
	Account string `mapstructure:"account"`
	// CredentialsFile is a service account or authorized user JSON file.
	// Application default credentials are used when it is empty.
	CredentialsFile string        `mapstructure:"credentials"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Log             Log           `mapstructure:"log"`
	Metrics         Metrics       `mapstructure:"metrics"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type Metrics struct {
	// Addr is the listen address of the Prometheus endpoint. Metrics are not served when it is empty.
	Addr string `mapstructure:"addr"`
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("account", "")
	v.SetDefault("credentials", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("timeout", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Setup makes v read the environment and the optional config file, then decodes the result.
// Without cfgFile, Filename is searched in the working directory and the home directory.
func Setup(v *viper.Viper, cfgFile string) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	applyDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if ext := filepath.Ext(cfgFile); len(ext) > 0 {
			v.SetConfigType(ext[1:])
		}
	} else {
		v.SetConfigName(Filename)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}
