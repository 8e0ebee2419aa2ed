// Package harvest runs the batch pipeline over one catalog: list its
// records, name each one, transform it, and write it to the output
// directory.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/metrics"
)

// Options configure a Harvester.
type Options struct {
	// Catalog labels log lines and metrics. Defaults to the base URL.
	Catalog string
	BaseURL string

	OutputDir  string
	ScratchDir string

	// Workers bounds concurrent records. Values below 1 mean sequential.
	Workers int

	// ContinueOnError logs and counts a failed record instead of
	// stopping the harvest.
	ContinueOnError bool
}

// Failure is one record that could not be harvested.
type Failure struct {
	URL string
	Err error
}

// Report summarizes a run. Written and Failures follow search order.
type Report struct {
	RunID      string
	Catalog    string
	Discovered int
	Written    []string
	Failures   []Failure
	Started    time.Time
	Finished   time.Time
}

// Skipped reports records that were never attempted because the run
// stopped early.
func (r *Report) Skipped() int {
	return r.Discovered - len(r.Written) - len(r.Failures)
}

// Harvester harvests one catalog.
type Harvester struct {
	session *geonetwork.Session
	fetcher *geonetwork.Fetcher
	namer   geonetwork.Namer
	metrics *metrics.Harvest
	opts    Options
}

// New creates a Harvester. A nil m gets a private metrics set.
func New(session *geonetwork.Session, namer geonetwork.Namer, m *metrics.Harvest, opts Options) *Harvester {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Catalog == "" {
		opts.Catalog = opts.BaseURL
	}
	if m == nil {
		m = metrics.NewHarvest()
	}

	fetcher := geonetwork.NewFetcher(session.Client(), opts.BaseURL)
	fetcher.ScratchDir = opts.ScratchDir

	return &Harvester{
		session: session,
		fetcher: fetcher,
		namer:   namer,
		metrics: m,
		opts:    opts,
	}
}

type outcome struct {
	done bool
	path string
	err  error
}

// Run harvests every ISO19139 record of the catalog. The report is
// returned even when Run fails.
func (h *Harvester) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Catalog: h.opts.Catalog,
		Started: time.Now(),
	}
	logger := slog.With("run", report.RunID, "catalog", h.opts.Catalog)

	defer func() {
		report.Finished = time.Now()
		h.metrics.FinishRun(h.opts.Catalog, report.Finished)
	}()

	if err := os.MkdirAll(h.opts.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("creating output directory: %w", err)
	}

	logger.Info("listing catalog records", "url", h.fetcher.SearchURL())
	urls, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("listing records: %w", err)
	}
	report.Discovered = len(urls)
	h.metrics.Discovered(h.opts.Catalog, len(urls))
	logger.Info("harvesting records", "records", len(urls), "workers", h.opts.Workers)

	outcomes := make([]outcome, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.opts.Workers)

	for i, url := range urls {
		i, url := i, url
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			start := time.Now()
			h.metrics.StartRecord()
			path, labels, err := h.harvestRecord(gctx, url)
			h.metrics.FinishRecord(h.opts.Catalog, time.Since(start), labels, err)

			outcomes[i] = outcome{done: true, path: path, err: err}
			if err != nil {
				logger.Warn("record failed", "url", url, "error", err)
				if h.opts.ContinueOnError {
					return nil
				}
				return fmt.Errorf("harvesting %s: %w", url, err)
			}

			logger.Debug("record written", "url", url, "path", path, "labels", labels)
			return nil
		})
	}
	runErr := g.Wait()

	for i, o := range outcomes {
		switch {
		case !o.done:
		case o.err != nil:
			report.Failures = append(report.Failures, Failure{URL: urls[i], Err: o.err})
		default:
			report.Written = append(report.Written, o.path)
		}
	}

	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}

	logger.Info("harvest finished",
		"written", len(report.Written),
		"failed", len(report.Failures),
		"skipped", report.Skipped(),
		"duration", time.Since(report.Started))

	return report, runErr
}

// harvestRecord returns the written path and the number of category
// labels attached.
func (h *Harvester) harvestRecord(ctx context.Context, url string) (string, int, error) {
	name, err := h.namer.Name(ctx, url)
	if err != nil {
		return "", 0, err
	}
	if err := checkName(name); err != nil {
		return "", 0, err
	}

	res, err := h.session.Transform(ctx, url)
	if err != nil {
		return "", 0, err
	}

	path := filepath.Join(h.opts.OutputDir, name)
	if err := writeFileAtomic(path, res.XML); err != nil {
		return "", 0, err
	}
	return path, len(res.Labels), nil
}

var errUnsafeName = errors.New("file name must be a single path element")

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", errUnsafeName, name)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file beside path and renames
// it into place, so readers never see a partial record.
func writeFileAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
