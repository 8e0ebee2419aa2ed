// Package keywords records GeoNetwork categories as gmd:keyword entries of the
// identification block's descriptiveKeywords.
package keywords

import (
	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/iso"
)

var keywordsPath = iso.MustCompile("gmd:descriptiveKeywords/gmd:MD_Keywords")

// Enricher implements the keyword mode.
type Enricher struct{}

var _ enrich.Enricher = (*Enricher)(nil)

// Name returns the mode identifier.
func (e *Enricher) Name() string {
	return "keywords"
}

// Description returns a human-readable mode description.
func (e *Enricher) Description() string {
	return "Add one gmd:keyword per category to gmd:descriptiveKeywords/gmd:MD_Keywords"
}

// Apply locates or creates the first MD_Keywords block and inserts one
// keyword per label after any keywords it already holds, keeping type and
// thesaurusName last.
func (e *Enricher) Apply(dataID *etree.Element, labels []string) error {
	block := keywordsPath.Ensure(dataID)

	pos := 0
	for _, child := range block.ChildElements() {
		if child.Tag == "keyword" && child.NamespaceURI() == iso.GMD {
			pos = child.Index() + 1
		}
	}

	for _, label := range labels {
		keyword := iso.NewElement(block, iso.GMD, "keyword")
		block.InsertChildAt(pos, keyword)
		text := iso.CreateElement(keyword, iso.GCO, "CharacterString")
		text.SetText(label)
		pos = keyword.Index() + 1
	}

	return nil
}

func init() {
	enrich.Register(&Enricher{})
}
