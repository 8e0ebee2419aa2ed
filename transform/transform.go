// Package transform rewrites ISO19139 gmd:MD_Metadata records as
// gmi:MI_Metadata, adding the GeoNetwork categories assigned to each record.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/metadown/catalog"
	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/iso"
)

var (
	fileIdentifierPath     = iso.MustCompile("gmd:fileIdentifier/gco:CharacterString")
	identificationInfoPath = iso.MustCompile("gmd:identificationInfo")
	dataIdentificationPath = iso.MustCompile("gmd:identificationInfo/gmd:MD_DataIdentification")
)

// Result is one rewritten record.
type Result struct {
	// FileIdentifier is the record's gmd:fileIdentifier
	FileIdentifier string

	// Labels are the category labels attached, in catalog order. Empty when
	// the record has no published categories.
	Labels []string

	// XML is the serialized MI_Metadata document
	XML []byte
}

// Transformer rewrites records using a single enrichment mode.
type Transformer struct {
	enricher enrich.Enricher
}

// New creates a Transformer that attaches categories with e.
func New(e enrich.Enricher) *Transformer {
	return &Transformer{enricher: e}
}

// NewForMode creates a Transformer for a registered enrichment mode.
func NewForMode(mode string) (*Transformer, error) {
	e, err := enrich.Get(mode)
	if err != nil {
		return nil, err
	}
	return New(e), nil
}

// Mode returns the enrichment mode name.
func (t *Transformer) Mode() string {
	return t.enricher.Name()
}

// Transform rewrites doc. The source document is never modified.
//
// The new root carries every attribute of the old one and all of its
// children in order. When idx assigns categories to the record's file
// identifier, their labels are attached to the identification block, which
// is created under gmd:identificationInfo if the record has none.
func (t *Transformer) Transform(doc *etree.Document, idx *catalog.Index) (*Result, error) {
	if doc == nil || doc.Root() == nil {
		return nil, errors.New("transform: document has no root element")
	}

	root := Rename(doc.Root())

	fileID, err := FileIdentifier(root)
	if err != nil {
		return nil, err
	}
	result := &Result{FileIdentifier: fileID}

	if codes := idx.Categories(fileID); len(codes) > 0 {
		labels, err := idx.Labels(codes)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", fileID, err)
		}

		dataID, err := identificationBlock(root)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", fileID, err)
		}

		if err := t.enricher.Apply(dataID, labels); err != nil {
			return nil, fmt.Errorf("record %s: applying %s enrichment: %w", fileID, t.enricher.Name(), err)
		}
		result.Labels = labels
	}

	out, err := iso.WriteDocument(root)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", fileID, err)
	}
	result.XML = out

	return result, nil
}

// Rename returns a copy of old re-rooted as gmi:MI_Metadata. Attributes are
// copied verbatim in order and every child token is carried over unchanged.
func Rename(old *etree.Element) *etree.Element {
	src := old.Copy()

	prefix, bound := iso.LookupPrefix(old, iso.GMI)
	if !bound {
		prefix = freePrefix(old, "gmi")
	}

	root := etree.NewElement(qualify(prefix, "MI_Metadata"))
	if !bound {
		root.CreateAttr("xmlns:"+prefix, iso.GMI)
	}
	for _, a := range src.Attr {
		root.CreateAttr(a.FullKey(), a.Value)
	}

	children := append([]etree.Token(nil), src.Child...)
	for _, c := range children {
		root.AddChild(c)
	}

	return root
}

// FileIdentifier reads gmd:fileIdentifier/gco:CharacterString from root.
// A missing or blank identifier is an *iso.LookupError.
func FileIdentifier(root *etree.Element) (string, error) {
	el, err := fileIdentifierPath.One(root)
	if err != nil {
		return "", fmt.Errorf("reading file identifier: %w", err)
	}
	id := strings.TrimSpace(el.Text())
	if id == "" {
		return "", fmt.Errorf("reading file identifier: %w", &iso.LookupError{Path: fileIdentifierPath.String()})
	}
	return id, nil
}

// identificationBlock returns the first MD_DataIdentification, creating one
// in the first gmd:identificationInfo when none exists.
func identificationBlock(root *etree.Element) (*etree.Element, error) {
	if dataID := dataIdentificationPath.First(root); dataID != nil {
		return dataID, nil
	}

	info, err := identificationInfoPath.One(root)
	if err != nil {
		return nil, fmt.Errorf("locating identification block: %w", err)
	}
	return iso.CreateElement(info, iso.GMD, "MD_DataIdentification"), nil
}

// freePrefix returns want, or want with a numeric suffix, such that the
// prefix is not already declared on e.
func freePrefix(e *etree.Element, want string) string {
	declared := make(map[string]bool)
	for _, a := range e.Attr {
		if a.Space == "xmlns" {
			declared[a.Key] = true
		}
	}

	prefix := want
	for i := 1; declared[prefix]; i++ {
		prefix = fmt.Sprintf("%s%d", want, i)
	}
	return prefix
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
