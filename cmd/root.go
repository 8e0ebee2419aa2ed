// Package cmd provides CLI commands for metadown.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/geonetwork"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "metadown",
	Short: "Harvest and enrich ISO19139 metadata from GeoNetwork catalogs",
	Long: `Metadown downloads the ISO19139 records a GeoNetwork catalog publishes and
rewrites each one as ISO 19115-2 (gmi:MI_Metadata), attaching the catalog's
category labels to the record's identification block.

Examples:
  metadown harvest https://data.example.org/geonetwork -o records/
  metadown harvest --catalog noaa --workers 4
  metadown list https://data.example.org/geonetwork
  metadown transform https://data.example.org/geonetwork/srv/en/xml_iso19139?id=12
  metadown check records/*.xml`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .metadown.yaml)")
	flags.Duration("timeout", geonetwork.DefaultTimeout, "Timeout for each HTTP request")
	flags.Float64("rate", 0, "Maximum requests per second to the catalog (0 = unlimited)")
	flags.String("mode", enrich.Default, "Category enrichment mode (supplemental, keywords)")
	flags.String("namer", "url", "File naming strategy (url, uuid)")
	flags.Bool("cache", true, "Fetch each catalog's category documents once per run")

	for _, key := range []string{"timeout", "rate", "mode", "namer", "cache"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	setupLogger()
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(catalogsCmd)
}

func initConfig() {
	// A missing .env is not an error.
	_ = godotenv.Load()
	setupLogger()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".metadown")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("METADOWN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("loaded config file", "path", viper.ConfigFileUsed())
	}
}
