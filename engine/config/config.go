// Package config loads the session's tunables: speed bounds, interaction
// radii, sensitivities, and the save directory. Defaults work out of the box;
// an optional dolly.cfg.json and DOLLY_-prefixed environment variables
// override them.
package config

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/spf13/viper"
)

// Config holds every tunable the engine consumes.
type Config struct {
	// MinSpeed and MaxSpeed bound checkpoint speeds, in parameter units per second.
	MinSpeed float32 `mapstructure:"minSpeed"`
	MaxSpeed float32 `mapstructure:"maxSpeed"`

	// GrabRadius is the proximity radius of the Edit state's point selection.
	GrabRadius float32 `mapstructure:"grabRadius"`

	// CastGrowthRate is how fast the Locomotion cast distance grows while the
	// trigger is held, in units per second.
	CastGrowthRate float32 `mapstructure:"castGrowthRate"`

	// SpeedSensitivity scales thumbstick deflection into checkpoint speed
	// change per second in the Edit state.
	SpeedSensitivity float32 `mapstructure:"speedSensitivity"`

	// PolylineResolution is the segment count of each track's polyline cache.
	PolylineResolution int `mapstructure:"polylineResolution"`

	// TickRate is the session tick rate in ticks per second.
	TickRate float64 `mapstructure:"tickRate"`

	// SaveDir is the save-file directory.
	SaveDir string `mapstructure:"saveDir"`
}

// Load reads the configuration: defaults, then an optional config file in
// searchPath (dolly.cfg.json), then DOLLY_-prefixed environment variables.
// A missing config file is not an error; a malformed one is.
//
// Parameters:
//   - searchPath: directory searched for dolly.cfg.json ("" skips the file)
//
// Returns:
//   - *Config: the resolved configuration
//   - error: config file parse or unmarshal error
func Load(searchPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("minSpeed", track.DefaultMinSpeed)
	v.SetDefault("maxSpeed", track.DefaultMaxSpeed)
	v.SetDefault("grabRadius", 0.15)
	v.SetDefault("castGrowthRate", 6.0)
	v.SetDefault("speedSensitivity", 0.25)
	v.SetDefault("polylineResolution", track.DefaultPolylineResolution)
	v.SetDefault("tickRate", 90.0)
	v.SetDefault("saveDir", "./saves")

	v.SetEnvPrefix("dolly")
	v.AutomaticEnv()

	if searchPath != "" {
		v.SetConfigName("dolly.cfg.json")
		v.SetConfigType("json")
		v.AddConfigPath(searchPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading dolly.cfg.json: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if cfg.MinSpeed >= cfg.MaxSpeed {
		return nil, fmt.Errorf("config: minSpeed %v must be below maxSpeed %v", cfg.MinSpeed, cfg.MaxSpeed)
	}
	return &cfg, nil
}

// TrackOptions translates the configuration into track builder options.
//
// Returns:
//   - []track.TrackBuilderOption: options applying the configured speed
//     bounds and polyline resolution
func (c *Config) TrackOptions() []track.TrackBuilderOption {
	return []track.TrackBuilderOption{
		track.WithSpeedBounds(c.MinSpeed, c.MaxSpeed),
		track.WithPolylineResolution(c.PolylineResolution),
	}
}
