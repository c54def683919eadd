// Package config provides configuration management for reps.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const defaultDataDir = "~/.reps"

// Config holds all configuration for the reps application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Export        ExportConfig       `mapstructure:"export"`
	Log           LogConfig          `mapstructure:"log"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds stopwatch settings.
type TimerConfig struct {
	// TickInterval is how often elapsed time advances.
	TickInterval Duration `mapstructure:"tick_interval"`
	// RefreshInterval is how often the TUI redraws.
	RefreshInterval Duration `mapstructure:"refresh_interval"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// ExportConfig holds lap export settings.
type ExportConfig struct {
	Dir        string `mapstructure:"dir"`
	Format     string `mapstructure:"format"`
	OnComplete bool   `mapstructure:"on_complete"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// StorageConfig holds the data directory.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ThemeConfig holds theme customization settings.
type ThemeConfig struct {
	ColorRunning string `mapstructure:"color_running"`
	ColorStopped string `mapstructure:"color_stopped"`
	ColorTitle   string `mapstructure:"color_title"`
	ColorTask    string `mapstructure:"color_task"`
	ColorLap     string `mapstructure:"color_lap"`
	ColorHelp    string `mapstructure:"color_help"`
	ColorError   string `mapstructure:"color_error"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorRunning: "#2ECC71",
		ColorStopped: "#E5E7EB",
		ColorTitle:   "#6B7280",
		ColorTask:    "#3B82F6",
		ColorLap:     "#A0AEC0",
		ColorHelp:    "#95A5A6",
		ColorError:   "#E74C3C",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			TickInterval:    Duration(10 * time.Millisecond),
			RefreshInterval: Duration(50 * time.Millisecond),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Export: ExportConfig{
			Dir:        "",
			Format:     "md",
			OnComplete: false,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file, creating it with
// defaults when it does not exist yet.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg as TOML to configPath.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("timer.refresh_interval", cfg.Timer.RefreshInterval.String())
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.format", cfg.Export.Format)
	v.Set("export.on_complete", cfg.Export.OnComplete)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("theme.color_running", cfg.Theme.ColorRunning)
	v.Set("theme.color_stopped", cfg.Theme.ColorStopped)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_task", cfg.Theme.ColorTask)
	v.Set("theme.color_lap", cfg.Theme.ColorLap)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.color_error", cfg.Theme.ColorError)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".reps", "config.toml"), nil
}

// GetLogPath returns the log file, defaulting to reps.log in the data dir.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "reps.log")
}

// GetExportDir returns the export directory, defaulting to exports/ in the data dir.
func GetExportDir(cfg *Config) string {
	if cfg.Export.Dir != "" {
		return cfg.Export.Dir
	}
	return filepath.Join(cfg.Storage.DataDir, "exports")
}

// TickInterval returns the configured tick interval, never zero.
func (c *Config) TickInterval() time.Duration {
	if d := time.Duration(c.Timer.TickInterval); d > 0 {
		return d
	}
	return 10 * time.Millisecond
}

// RefreshInterval returns the configured redraw interval, never zero.
func (c *Config) RefreshInterval() time.Duration {
	if d := time.Duration(c.Timer.RefreshInterval); d > 0 {
		return d
	}
	return 50 * time.Millisecond
}

// resolvePaths expands ~ in every configured path.
func (c *Config) resolvePaths() error {
	var err error
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	if c.Storage.DataDir, err = expandHome(c.Storage.DataDir); err != nil {
		return err
	}
	if c.Export.Dir, err = expandHome(c.Export.Dir); err != nil {
		return err
	}
	if c.Log.File, err = expandHome(c.Log.File); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("timer.tick_interval", "10ms")
	v.SetDefault("timer.refresh_interval", "50ms")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", false)
	v.SetDefault("export.dir", "")
	v.SetDefault("export.format", "md")
	v.SetDefault("export.on_complete", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("storage.data_dir", defaultDataDir)

	defaults := DefaultThemeConfig()
	v.SetDefault("theme.color_running", defaults.ColorRunning)
	v.SetDefault("theme.color_stopped", defaults.ColorStopped)
	v.SetDefault("theme.color_title", defaults.ColorTitle)
	v.SetDefault("theme.color_task", defaults.ColorTask)
	v.SetDefault("theme.color_lap", defaults.ColorLap)
	v.SetDefault("theme.color_help", defaults.ColorHelp)
	v.SetDefault("theme.color_error", defaults.ColorError)
}
