package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ormstarter/ormstarter/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyTemplatesRoot = "templates_root"
	KeyOutputDir     = "output_dir"
	KeyReadyTimeout  = "ready_timeout"
	KeyProbeTimeout  = "probe_timeout"
	KeyProbeHost     = "probe_host"
	KeyProbePath     = "probe_path"
	KeyReadyMarkers  = "ready_markers"
	KeyErrorMarkers  = "error_markers"
	KeyLogLevel      = "log_level"
	KeyStrict        = "strict"
)

// Keys returns every known configuration key in display order.
func Keys() []string {
	return []string{
		KeyTemplatesRoot, KeyOutputDir, KeyReadyTimeout, KeyProbeTimeout, KeyProbeHost,
		KeyProbePath, KeyReadyMarkers, KeyErrorMarkers, KeyLogLevel, KeyStrict,
	}
}

// Settings is the resolved, typed view of the configuration.
type Settings struct {
	TemplatesRoot string
	OutputDir     string
	ReadyTimeout  time.Duration
	ProbeTimeout  time.Duration
	ProbeHost     string
	ProbePath     string
	ReadyMarkers  []string
	ErrorMarkers  []string
	LogLevel      string
	Strict        bool
}

// Dir returns the path to the config directory (~/.ormstarter/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.ormstarter/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// SetDefaults registers the built-in default for every key.
func SetDefaults() {
	viper.SetDefault(KeyTemplatesRoot, ".")
	viper.SetDefault(KeyOutputDir, "./extracted-templates")
	viper.SetDefault(KeyReadyTimeout, 10*time.Second)
	viper.SetDefault(KeyProbeTimeout, 5*time.Second)
	viper.SetDefault(KeyProbeHost, "localhost")
	viper.SetDefault(KeyProbePath, "/users")
	viper.SetDefault(KeyReadyMarkers, []string{"Server running", "listening"})
	viper.SetDefault(KeyErrorMarkers, []string{"Error", "EADDRINUSE"})
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyStrict, false)
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	SetDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the typed settings from the loaded configuration.
func Current() Settings {
	return Settings{
		TemplatesRoot: viper.GetString(KeyTemplatesRoot),
		OutputDir:     viper.GetString(KeyOutputDir),
		ReadyTimeout:  viper.GetDuration(KeyReadyTimeout),
		ProbeTimeout:  viper.GetDuration(KeyProbeTimeout),
		ProbeHost:     viper.GetString(KeyProbeHost),
		ProbePath:     viper.GetString(KeyProbePath),
		ReadyMarkers:  stringList(KeyReadyMarkers),
		ErrorMarkers:  stringList(KeyErrorMarkers),
		LogLevel:      viper.GetString(KeyLogLevel),
		Strict:        viper.GetBool(KeyStrict),
	}
}

// stringList reads a list setting. A plain string, as written by Set or an
// environment variable, is split on commas.
func stringList(key string) []string {
	switch v := viper.Get(key).(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return viper.GetStringSlice(key)
	}
}

// Get returns a config value by key. Returns empty string if not set.
// Lists are joined with commas.
func Get(key string) string {
	switch v := viper.Get(key).(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
