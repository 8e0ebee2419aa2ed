package geonetwork

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const (
	searchPath   = "/srv/en/csv.search?"
	downloadPath = "/srv/en/xml_iso19139?id="

	// SchemaISO19139 is the schema column value of harvestable records.
	SchemaISO19139 = "iso19139"
)

// Fetcher lists the download URLs of a catalog's ISO19139 records.
type Fetcher struct {
	client  *Client
	baseURL string

	// ScratchDir holds the temporary copy of the search response.
	// Empty means os.TempDir.
	ScratchDir string
}

// NewFetcher creates a Fetcher for the catalog rooted at baseURL.
func NewFetcher(client *Client, baseURL string) *Fetcher {
	return &Fetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchURL returns the catalog's CSV search endpoint.
func (f *Fetcher) SearchURL() string {
	return f.baseURL + searchPath
}

// DownloadURL returns the record download URL for a catalog id.
func (f *Fetcher) DownloadURL(id string) string {
	return f.baseURL + downloadPath + id
}

// Fetch runs the catalog search and returns one download URL per
// iso19139 row, in response order. The response is spooled through a
// scratch file that is removed before Fetch returns.
func (f *Fetcher) Fetch(ctx context.Context) ([]string, error) {
	scratch, err := os.CreateTemp(f.ScratchDir, "metadown-search-*.csv")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", err)
	}
	defer func() {
		scratch.Close()
		if err := os.Remove(scratch.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("removing scratch file", "path", scratch.Name(), "error", err)
		}
	}()

	url := f.SearchURL()
	body, err := f.client.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	_, err = io.Copy(scratch, body)
	body.Close()
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding scratch file: %w", err)
	}

	urls, err := f.parseSearch(scratch)
	if err != nil {
		return nil, &ParseError{Source: url, Err: err}
	}

	slog.Debug("catalog search complete", "url", url, "records", len(urls))
	return urls, nil
}

func (f *Fetcher) parseSearch(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	schemaCol, ok := columns["schema"]
	if !ok {
		return nil, errors.New(`CSV header has no "schema" column`)
	}
	idCol, ok := columns["id"]
	if !ok {
		return nil, errors.New(`CSV header has no "id" column`)
	}

	var urls []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		if field(row, schemaCol) != SchemaISO19139 {
			continue
		}
		urls = append(urls, f.DownloadURL(field(row, idCol)))
	}

	return urls, nil
}

// field returns row[i], or "" for a short row.
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
