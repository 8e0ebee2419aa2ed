package iso

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ReadDocument parses an XML document. Declared non-UTF-8 encodings such as
// ISO-8859-1 are decoded to UTF-8.
func ReadDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("parsing XML: document has no root element")
	}
	return doc, nil
}

// WriteDocument serializes root as a standalone UTF-8 document with an XML
// declaration and two-space indentation. Leaf whitespace is preserved.
func WriteDocument(root *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true

	indent := etree.NewIndentSettings()
	indent.Spaces = 2
	indent.PreserveLeafWhitespace = true
	doc.IndentWithSettings(indent)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("writing XML: %w", err)
	}
	return out, nil
}
