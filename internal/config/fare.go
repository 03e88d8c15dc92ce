package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// FareConfig holds the engine defaults that operations may tune without a deploy.
type FareConfig struct {
	Currency             string `mapstructure:"currency"`
	ReturnTripMultiplier string `mapstructure:"returnTripMultiplier"`
	StoreTimeoutSeconds  int    `mapstructure:"storeTimeoutSeconds"`
	RoundPlaces          int32  `mapstructure:"roundPlaces"`
}

func DefaultFareConfig() FareConfig {
	return FareConfig{
		Currency:             "THB",
		ReturnTripMultiplier: "0.9",
		StoreTimeoutSeconds:  3,
		RoundPlaces:          2,
	}
}

// ReturnTrip returns the return-trip multiplier as a decimal.
func (c FareConfig) ReturnTrip() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(c.ReturnTripMultiplier))
	if err != nil {
		return decimal.RequireFromString(DefaultFareConfig().ReturnTripMultiplier)
	}
	return d
}

// FareConfigHolder serves the current fare config and hot-reloads it on file change.
type FareConfigHolder struct {
	current atomic.Value // holds FareConfig
}

func NewFareConfigHolder() (*FareConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("fare")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fareengine/config")
	v.AddConfigPath("/etc/fareengine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FAREENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultFareConfig()
		v.SetDefault("fare.currency", defaults.Currency)
		v.SetDefault("fare.returnTripMultiplier", defaults.ReturnTripMultiplier)
		v.SetDefault("fare.storeTimeoutSeconds", defaults.StoreTimeoutSeconds)
		v.SetDefault("fare.roundPlaces", defaults.RoundPlaces)
	}

	var cfg FareConfig
	if err := v.UnmarshalKey("fare", &cfg); err != nil {
		return nil, err
	}
	applyFareDefaults(&cfg)
	if err := validateFareConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FareConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FareConfig
		if err := v.UnmarshalKey("fare", &updated); err != nil {
			log.Printf("[fare-config] reload failed: %v", err)
			return
		}
		applyFareDefaults(&updated)
		if err := validateFareConfig(updated); err != nil {
			log.Printf("[fare-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

// NewStaticFareConfigHolder returns a holder pinned to the given config, for tests.
func NewStaticFareConfigHolder(cfg FareConfig) *FareConfigHolder {
	applyFareDefaults(&cfg)
	holder := &FareConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *FareConfigHolder) Get() FareConfig {
	return h.current.Load().(FareConfig)
}

func applyFareDefaults(cfg *FareConfig) {
	defaults := DefaultFareConfig()
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = defaults.Currency
	}
	if strings.TrimSpace(cfg.ReturnTripMultiplier) == "" {
		cfg.ReturnTripMultiplier = defaults.ReturnTripMultiplier
	}
	if cfg.StoreTimeoutSeconds == 0 {
		cfg.StoreTimeoutSeconds = defaults.StoreTimeoutSeconds
	}
	if cfg.RoundPlaces == 0 {
		cfg.RoundPlaces = defaults.RoundPlaces
	}
}

func validateFareConfig(cfg FareConfig) error {
	mul, err := decimal.NewFromString(strings.TrimSpace(cfg.ReturnTripMultiplier))
	if err != nil {
		return errors.New("fare config: returnTripMultiplier must be a decimal")
	}
	if mul.LessThanOrEqual(decimal.Zero) || mul.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("fare config: returnTripMultiplier must be in (0, 1]")
	}
	if cfg.StoreTimeoutSeconds < 0 {
		return errors.New("fare config: storeTimeoutSeconds must not be negative")
	}
	if cfg.RoundPlaces < 0 {
		return errors.New("fare config: roundPlaces must not be negative")
	}
	return nil
}
