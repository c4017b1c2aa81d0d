package samss

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// config holds the simulation knobs loaded from a TOML configuration file
// (spec §6). It is kept unexported; callers go through the accessor
// functions below, mirroring the hidden-struct pattern used throughout the
// fleet's configuration loaders.
type config struct {
	Dt           float64
	EndTime      float64
	SaveInterval int
	Scheme       string
	SaveDir      string
	Datetime     string // ISO-8601 epoch for the simulation's t=0
}

var loadedConfig *config

// LoadConfig reads a configuration file (TOML, or any other format viper
// supports; the format is taken from the file's extension, so path must
// carry one) and stores the result for the accessor functions. Call this once at startup, typically from main.
func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("dt", 1.0)
	v.SetDefault("end_time", 3600.0)
	v.SetDefault("save_interval", 60)
	v.SetDefault("scheme", "rk4")
	v.SetDefault("save_dir", "")
	v.SetDefault("datetime", "2000-01-01T12:00:00Z")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("[samss] reading config %q: %w", path, err)
	}
	cfg := &config{
		Dt:           v.GetFloat64("dt"),
		EndTime:      v.GetFloat64("end_time"),
		SaveInterval: v.GetInt("save_interval"),
		Scheme:       strings.ToLower(v.GetString("scheme")),
		SaveDir:      v.GetString("save_dir"),
		Datetime:     v.GetString("datetime"),
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("[samss] config: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.EndTime <= 0 {
		return fmt.Errorf("[samss] config: end_time must be positive, got %f", cfg.EndTime)
	}
	if cfg.SaveInterval <= 0 {
		return fmt.Errorf("[samss] config: save_interval must be positive, got %d", cfg.SaveInterval)
	}
	loadedConfig = cfg
	return nil
}

// Dt returns the configured integration timestep [s].
func Dt() float64 { return loadedConfig.Dt }

// EndTime returns the configured simulation duration [s].
func EndTime() float64 { return loadedConfig.EndTime }

// SaveInterval returns the configured number of steps between saved
// snapshots.
func SaveInterval() int { return loadedConfig.SaveInterval }

// ConfiguredScheme parses the configured integration scheme name.
func ConfiguredScheme() (Scheme, error) {
	return SchemeFromString(loadedConfig.Scheme)
}

// SaveDir returns the configured snapshot output directory ("" disables
// on-disk saving; History is still retained in memory).
func SaveDir() string { return loadedConfig.SaveDir }

// Datetime returns the configured ISO-8601 epoch string for t=0.
func Datetime() string { return loadedConfig.Datetime }
