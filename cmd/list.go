package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/profile"
)

var (
	listCatalog string
	listNames   bool
)

var listCmd = &cobra.Command{
	Use:   "list [base-url]",
	Short: "List the ISO19139 records a catalog publishes",
	Long: `List runs the catalog's CSV search and prints one download URL per
ISO19139 record, in catalog order. With --names, the output file name
each record would be harvested to is printed alongside.

Examples:
  metadown list https://data.example.org/geonetwork
  metadown list --catalog noaa --names`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCatalog, "catalog", "", "Saved catalog profile to list")
	listCmd.Flags().BoolVar(&listNames, "names", false, "Show the output file name of each record")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var baseURL string
	switch {
	case len(args) > 0:
		baseURL = args[0]
	case listCatalog != "":
		p, err := profile.Load(listCatalog)
		if err != nil {
			return err
		}
		baseURL = p.BaseURL
		if p.Namer != "" && !cmd.Flags().Changed("namer") {
			cfg.Namer = p.Namer
		}
	default:
		return fmt.Errorf("a catalog base URL or --catalog is required")
	}

	client := geonetwork.NewClient(cfg.Timeout, cfg.Rate)
	fetcher := geonetwork.NewFetcher(client, baseURL)
	fetcher.ScratchDir = cfg.ScratchDir

	ctx := context.Background()
	urls, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	if !listNames {
		for _, u := range urls {
			fmt.Println(u)
		}
		fmt.Fprintf(os.Stderr, "Found %d ISO19139 records\n", len(urls))
		return nil
	}

	namer, err := geonetwork.NewNamer(cfg.Namer, client)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tFILE")
	for _, u := range urls {
		name, err := namer.Name(ctx, u)
		if err != nil {
			name = "error: " + err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", u, name)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "Found %d ISO19139 records\n", len(urls))
	return nil
}
