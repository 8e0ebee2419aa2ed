// Package supplemental records GeoNetwork categories as a line of text in the
// identification block's supplementalInformation.
package supplemental

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/iso"
)

// Prefix opens the category line; the line closes with a double quote.
const Prefix = `GeoNetwork Categories: "`

var leafPath = iso.MustCompile("gmd:supplementalInformation/gco:CharacterString")

// Enricher implements the supplemental-text mode.
type Enricher struct{}

var _ enrich.Enricher = (*Enricher)(nil)

// Name returns the mode identifier.
func (e *Enricher) Name() string {
	return "supplemental"
}

// Description returns a human-readable mode description.
func (e *Enricher) Description() string {
	return `Append 'GeoNetwork Categories: "..."' to gmd:supplementalInformation`
}

// Line formats labels as the category line.
func Line(labels []string) string {
	return Prefix + strings.Join(labels, ", ") + `"`
}

// Apply locates or creates supplementalInformation/CharacterString and adds
// the category line, on a new line when the leaf already has text.
func (e *Enricher) Apply(dataID *etree.Element, labels []string) error {
	leaf := leafPath.Ensure(dataID)
	line := Line(labels)

	if existing := leaf.Text(); existing != "" {
		leaf.SetText(existing + "\n" + line)
		return nil
	}
	leaf.SetText(line)
	return nil
}

func init() {
	enrich.Register(&Enricher{})
}
