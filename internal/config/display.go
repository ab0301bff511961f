package config

import (
	"log"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DisplayConfig controls presentation-boundary formatting. Stored rates stay
// exact fractions; rounding happens only when rendering.
type DisplayConfig struct {
	RateDecimalPlaces    int32  `mapstructure:"rate_decimal_places"`
	PercentDecimalPlaces int32  `mapstructure:"percent_decimal_places"`
	DateFormat           string `mapstructure:"date_format"`
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		RateDecimalPlaces:    4,
		PercentDecimalPlaces: 2,
		DateFormat:           "2006-01-02",
	}
}

type DisplayConfigHolder struct {
	current atomic.Value // holds DisplayConfig
}

// NewDisplayConfigHolder loads booksd.yml if present and watches it for
// changes. Missing file falls back to defaults.
func NewDisplayConfigHolder() (*DisplayConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("booksd")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/booksd")
	v.AddConfigPath(".")

	holder := &DisplayConfigHolder{}
	holder.current.Store(DefaultDisplayConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		return holder, nil
	}

	if cfg, err := decodeDisplayConfig(v); err == nil {
		holder.current.Store(cfg)
	} else {
		log.Printf("display config invalid, using defaults: %v", err)
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		cfg, err := decodeDisplayConfig(v)
		if err != nil {
			log.Printf("display config reload failed: %v", err)
			return
		}
		holder.current.Store(cfg)
	})
	v.WatchConfig()

	return holder, nil
}

func (h *DisplayConfigHolder) Get() DisplayConfig {
	return h.current.Load().(DisplayConfig)
}

func decodeDisplayConfig(v *viper.Viper) (DisplayConfig, error) {
	cfg := DefaultDisplayConfig()
	if err := v.UnmarshalKey("display", &cfg); err != nil {
		return DisplayConfig{}, err
	}
	if cfg.RateDecimalPlaces < 0 || cfg.PercentDecimalPlaces < 0 {
		cfg = DefaultDisplayConfig()
	}
	return cfg, nil
}
