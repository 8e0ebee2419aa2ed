package geonetwork

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/metadown/catalog"
)

const (
	assignmentsPath = "/xml.search"
	labelsPath      = "/xml.info?type=categories"
)

// AuxiliaryBase strips the last path segment from a record download URL,
// yielding the base the catalog's xml.search and xml.info services live
// under.
func AuxiliaryBase(recordURL string) (string, error) {
	i := strings.LastIndex(recordURL, "/")
	if i < 0 {
		return "", fmt.Errorf("deriving auxiliary base from %q: no path segment", recordURL)
	}
	return recordURL[:i], nil
}

// LoadIndex fetches and parses the category assignment and category label
// documents under auxBase.
func (c *Client) LoadIndex(ctx context.Context, auxBase string) (*catalog.Index, error) {
	assignmentsURL := auxBase + assignmentsPath
	data, err := c.Get(ctx, assignmentsURL)
	if err != nil {
		return nil, err
	}
	assignments, err := catalog.ParseAssignments(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: assignmentsURL, Err: err}
	}

	labelsURL := auxBase + labelsPath
	data, err = c.Get(ctx, labelsURL)
	if err != nil {
		return nil, err
	}
	labels, err := catalog.ParseLabels(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: labelsURL, Err: err}
	}

	idx := catalog.NewIndex(assignments, labels)
	slog.Debug("loaded category index",
		"base", auxBase,
		"records", idx.RecordCount(),
		"labels", idx.LabelCount())

	return idx, nil
}
