package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RevenueConfig controls how a gross subscription payment is split between
// the creator payout and the platform commission.
type RevenueConfig struct {
	CreatorShare float64 `mapstructure:"creatorShare"`
}

func DefaultRevenueConfig() RevenueConfig {
	return RevenueConfig{CreatorShare: 0.70}
}

// RevenueConfigHolder serves the current revenue policy and hot-reloads it
// when the backing file changes.
type RevenueConfigHolder struct {
	current atomic.Value // holds RevenueConfig
}

func NewRevenueConfigHolder() (*RevenueConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("revenue")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/personacore")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PERSONACORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultRevenueConfig()
		v.SetDefault("revenue.creatorShare", defaults.CreatorShare)
	}

	var cfg RevenueConfig
	if err := v.UnmarshalKey("revenue", &cfg); err != nil {
		return nil, err
	}
	if cfg.CreatorShare == 0 {
		cfg = DefaultRevenueConfig()
	}
	if err := validateRevenueConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RevenueConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RevenueConfig
		if err := v.UnmarshalKey("revenue", &updated); err != nil {
			log.Printf("[revenue-config] reload failed: %v", err)
			return
		}
		if err := validateRevenueConfig(updated); err != nil {
			log.Printf("[revenue-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[revenue-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRevenueConfigHolder serves a fixed policy with no file watching.
func NewStaticRevenueConfigHolder(cfg RevenueConfig) *RevenueConfigHolder {
	holder := &RevenueConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *RevenueConfigHolder) Get() RevenueConfig {
	return h.current.Load().(RevenueConfig)
}

func validateRevenueConfig(cfg RevenueConfig) error {
	if cfg.CreatorShare <= 0 || cfg.CreatorShare > 1 {
		return errors.New("revenue.creatorShare must be within (0, 1]")
	}
	return nil
}
