package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/transform"
)

// Config holds runtime settings. Values come from flags, METADOWN_* env
// vars, .metadown.yaml, and the defaults below, in that order.
type Config struct {
	Output          string        `mapstructure:"output"`
	Workers         int           `mapstructure:"workers"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Rate            float64       `mapstructure:"rate"`
	Mode            string        `mapstructure:"mode"`
	Namer           string        `mapstructure:"namer"`
	Cache           bool          `mapstructure:"cache"`
	MetricsFile     string        `mapstructure:"metrics-file"`
	ContinueOnError bool          `mapstructure:"continue-on-error"`
	ScratchDir      string        `mapstructure:"scratch-dir"`
}

func loadConfig() (Config, error) {
	viper.SetDefault("output", ".")
	viper.SetDefault("workers", 1)
	viper.SetDefault("timeout", geonetwork.DefaultTimeout)
	viper.SetDefault("rate", 0.0)
	viper.SetDefault("mode", enrich.Default)
	viper.SetDefault("namer", "url")
	viper.SetDefault("cache", true)
	viper.SetDefault("metrics-file", "")
	viper.SetDefault("continue-on-error", false)
	viper.SetDefault("scratch-dir", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newSession builds the HTTP client and transformer shared by the commands
// that talk to a catalog.
func newSession(cfg Config) (*geonetwork.Session, error) {
	transformer, err := transform.NewForMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	client := geonetwork.NewClient(cfg.Timeout, cfg.Rate)
	return geonetwork.NewSession(client, transformer, cfg.Cache), nil
}
