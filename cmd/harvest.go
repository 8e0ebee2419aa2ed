package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/harvest"
	"github.com/lehigh-university-libraries/metadown/metrics"
	"github.com/lehigh-university-libraries/metadown/profile"
)

var harvestCatalog string

var harvestCmd = &cobra.Command{
	Use:   "harvest [base-url]",
	Short: "Harvest every ISO19139 record of a catalog",
	Long: `Harvest lists a catalog's ISO19139 records, rewrites each one as
gmi:MI_Metadata with the catalog's category labels attached, and writes
GeoNetwork-<id>.xml files to the output directory.

The catalog is given either as a base URL or as a saved catalog profile.
Settings on a profile apply unless overridden by a flag.

Examples:
  metadown harvest https://data.example.org/geonetwork -o records/
  metadown harvest --catalog noaa --workers 4 --continue-on-error
  metadown harvest https://data.example.org/geonetwork --mode keywords --namer uuid`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHarvest,
}

func init() {
	flags := harvestCmd.Flags()
	flags.StringVar(&harvestCatalog, "catalog", "", "Saved catalog profile to harvest")
	flags.StringP("output", "o", ".", "Output directory")
	flags.IntP("workers", "w", 1, "Records harvested concurrently")
	flags.Bool("continue-on-error", false, "Log failed records and keep harvesting")
	flags.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	flags.String("scratch-dir", "", "Directory for the temporary search response (default: system temp)")

	for _, key := range []string{"output", "workers", "continue-on-error", "metrics-file", "scratch-dir"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	baseURL, label, err := resolveCatalog(cmd, args, &cfg)
	if err != nil {
		return err
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	namer, err := geonetwork.NewNamer(cfg.Namer, session.Client())
	if err != nil {
		return err
	}

	m := metrics.NewHarvest()
	h := harvest.New(session, namer, m, harvest.Options{
		Catalog:         label,
		BaseURL:         baseURL,
		OutputDir:       cfg.Output,
		ScratchDir:      cfg.ScratchDir,
		Workers:         cfg.Workers,
		ContinueOnError: cfg.ContinueOnError,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, runErr := h.Run(ctx)

	fmt.Fprintf(os.Stderr, "Harvested %d of %d records into %s\n", len(report.Written), report.Discovered, cfg.Output)
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", f.URL, f.Err)
	}
	if n := report.Skipped(); n > 0 {
		fmt.Fprintf(os.Stderr, "  skipped: %d records not attempted\n", n)
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			if runErr == nil {
				return err
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}

	return runErr
}

// resolveCatalog returns the catalog base URL and its label, applying a
// catalog profile's settings to cfg where no flag overrides them.
func resolveCatalog(cmd *cobra.Command, args []string, cfg *Config) (string, string, error) {
	switch {
	case harvestCatalog != "" && len(args) > 0:
		return "", "", fmt.Errorf("give either a base URL or --catalog, not both")
	case len(args) > 0:
		return args[0], args[0], nil
	case harvestCatalog == "":
		return "", "", fmt.Errorf("a catalog base URL or --catalog is required")
	}

	p, err := profile.Load(harvestCatalog)
	if err != nil {
		return "", "", err
	}
	if err := p.Validate(); err != nil {
		return "", "", err
	}

	if p.Mode != "" && !cmd.Flags().Changed("mode") {
		cfg.Mode = p.Mode
	}
	if p.Namer != "" && !cmd.Flags().Changed("namer") {
		cfg.Namer = p.Namer
	}
	if p.Output != "" && !cmd.Flags().Changed("output") {
		cfg.Output = p.Output
	}

	return p.BaseURL, p.Name, nil
}
