package iso

import (
	"strings"

	"github.com/beevik/etree"
)

var (
	fileIdentifierPath     = MustCompile("gmd:fileIdentifier/gco:CharacterString")
	identificationInfoPath = MustCompile("gmd:identificationInfo")
)

// Check lists the elements a record lacks that a rewrite to MI_Metadata
// depends on. An empty result means the record can be rewritten.
func Check(root *etree.Element) []string {
	if root == nil {
		return []string{"document has no root element"}
	}

	var problems []string
	if root.NamespaceURI() != GMD || root.Tag != "MD_Metadata" {
		problems = append(problems, "root element is "+root.FullTag()+", want gmd:MD_Metadata")
	}

	id := fileIdentifierPath.First(root)
	switch {
	case id == nil:
		problems = append(problems, "missing gmd:fileIdentifier/gco:CharacterString")
	case strings.TrimSpace(id.Text()) == "":
		problems = append(problems, "empty gmd:fileIdentifier/gco:CharacterString")
	}

	if identificationInfoPath.First(root) == nil {
		problems = append(problems, "missing gmd:identificationInfo")
	}

	return problems
}
