// Package enrich defines the plugins that attach GeoNetwork category labels to
// a record's identification block. A transformation uses exactly one plugin.
package enrich

import "github.com/beevik/etree"

// Default is the enrichment mode used when none is configured.
const Default = "supplemental"

// Enricher attaches category labels to an MD_DataIdentification element.
type Enricher interface {
	// Name returns the mode identifier (e.g., "supplemental", "keywords")
	Name() string

	// Description returns a human-readable mode description
	Description() string

	// Apply attaches labels, in order, to dataID. labels is never empty.
	Apply(dataID *etree.Element, labels []string) error
}
