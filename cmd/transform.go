package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metadown/catalog"
	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/iso"
	"github.com/lehigh-university-libraries/metadown/transform"
)

var (
	transformOutput     string
	transformAuxBase    string
	transformSearchFile string
	transformInfoFile   string
)

var transformCmd = &cobra.Command{
	Use:   "transform <record-url | file | ->",
	Short: "Rewrite a single record as gmi:MI_Metadata",
	Long: `Transform rewrites one ISO19139 record and prints the result.

A record URL is fetched and enriched from its own catalog. A local file
(or - for stdin) is enriched from category documents given with
--search-file and --categories-file, or fetched from --aux-base (the
catalog's /srv/en URL). Without either, only the root is rewritten.

Output defaults to stdout.

Examples:
  metadown transform https://data.example.org/geonetwork/srv/en/xml_iso19139?id=12
  metadown transform record.xml --aux-base https://data.example.org/geonetwork/srv/en -o out.xml
  metadown transform record.xml --search-file xml.search.xml --categories-file categories.xml
  cat record.xml | metadown transform - --mode keywords`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "Output file (default: stdout)")
	transformCmd.Flags().StringVar(&transformAuxBase, "aux-base", "", "Catalog /srv/en URL to fetch category documents from")
	transformCmd.Flags().StringVar(&transformSearchFile, "search-file", "", "Saved xml.search response")
	transformCmd.Flags().StringVar(&transformInfoFile, "categories-file", "", "Saved xml.info?type=categories response")
}

func runTransform(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	source := args[0]

	var res *transform.Result
	if isURL(source) {
		res, err = session.Transform(ctx, source)
	} else {
		res, err = transformLocal(ctx, session, cfg, source)
	}
	if err != nil {
		return err
	}

	var output io.Writer
	if transformOutput != "" {
		f, err := os.Create(transformOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = os.Stdout
	}

	if _, err := output.Write(res.XML); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(res.Labels) > 0 {
		fmt.Fprintf(os.Stderr, "Record %s: attached %d categories (%s)\n",
			res.FileIdentifier, len(res.Labels), strings.Join(res.Labels, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "Record %s: no categories\n", res.FileIdentifier)
	}
	return nil
}

func transformLocal(ctx context.Context, session *geonetwork.Session, cfg Config, source string) (*transform.Result, error) {
	var input io.Reader
	if source == "-" {
		input = os.Stdin
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	doc, err := iso.ReadDocument(input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	idx, err := loadLocalIndex(ctx, session)
	if err != nil {
		return nil, err
	}

	transformer, err := transform.NewForMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return transformer.Transform(doc, idx)
}

func loadLocalIndex(ctx context.Context, session *geonetwork.Session) (*catalog.Index, error) {
	switch {
	case transformSearchFile != "" || transformInfoFile != "":
		if transformSearchFile == "" || transformInfoFile == "" {
			return nil, fmt.Errorf("--search-file and --categories-file must be given together")
		}
		assignments, err := parseFile(transformSearchFile, catalog.ParseAssignments)
		if err != nil {
			return nil, err
		}
		labels, err := parseFile(transformInfoFile, catalog.ParseLabels)
		if err != nil {
			return nil, err
		}
		return catalog.NewIndex(assignments, labels), nil
	case transformAuxBase != "":
		return session.Index(ctx, strings.TrimRight(transformAuxBase, "/"))
	default:
		slog.Warn("no category source given; only the root element will be rewritten")
		return catalog.NewIndex(nil, nil), nil
	}
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
