// Package config loads autobacklog settings from defaults, an optional
// YAML file and AUTOBACKLOG_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// AUTOBACKLOG_API_BASE_URL for api.base_url.
const EnvPrefix = "AUTOBACKLOG"

// Config is the complete autobacklog configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Log       LogConfig       `mapstructure:"log"`
	DevServer DevServerConfig `mapstructure:"devserver"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}

// Client returns the api package's view of these settings.
func (c APIConfig) Client() api.Config {
	return api.Config{BaseURL: c.BaseURL, Timeout: c.Timeout, UploadTimeout: c.UploadTimeout}
}

// LogConfig controls diagnostic logging. Logs go to stderr unless File is set.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// DevServerConfig configures the bundled development backend.
type DevServerConfig struct {
	Addr string `mapstructure:"addr"`
	DB   string `mapstructure:"db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	apiDefaults := api.DefaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL:       apiDefaults.BaseURL,
			Timeout:       apiDefaults.Timeout,
			UploadTimeout: apiDefaults.UploadTimeout,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		DevServer: DevServerConfig{
			Addr: ":8080",
			DB:   filepath.Join(DataDir(), "devserver.db"),
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.upload_timeout", d.API.UploadTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("devserver.addr", d.DevServer.Addr)
	v.SetDefault("devserver.db", d.DevServer.DB)
}

// New returns a viper instance with defaults and environment overrides
// wired. When file is empty the default config file is read if it exists;
// an explicit file that cannot be read is an error.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.DevServer.DB = expandHome(cfg.DevServer.DB)
	cfg.Log.File = expandHome(cfg.Log.File)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "autobacklog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".autobacklog"
	}
	return filepath.Join(home, ".config", "autobacklog")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory for local state such as the dev server database.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".autobacklog"
	}
	return filepath.Join(home, ".autobacklog")
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
