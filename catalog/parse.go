package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html/charset"
	xmlpath "gopkg.in/xmlpath.v2"
)

// xml.search lists one element per record holding a uuid child and zero or
// more category children; categories flagged internal are not published.
var (
	recordPath   = xmlpath.MustCompile("//*[uuid]")
	uuidPath     = xmlpath.MustCompile("uuid")
	categoryPath = xmlpath.MustCompile("category")
	internalPath = xmlpath.MustCompile("@internal")
)

// xml.info?type=categories
var (
	categoryInfoPath = xmlpath.MustCompile("//categories/category")
	namePath         = xmlpath.MustCompile("name")
	englishPath      = xmlpath.MustCompile("label/eng")
)

func parse(r io.Reader) (*xmlpath.Node, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	root, err := xmlpath.ParseDecoder(d)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return root, nil
}

// ParseAssignments reads a GeoNetwork xml.search response into a map of file
// identifier to non-internal category codes.
func ParseAssignments(r io.Reader) (map[string][]string, error) {
	root, err := parse(r)
	if err != nil {
		return nil, err
	}

	assignments := make(map[string][]string)
	records := recordPath.Iter(root)
	for records.Next() {
		record := records.Node()
		uuid, ok := uuidPath.String(record)
		uuid = strings.TrimSpace(uuid)
		if !ok || uuid == "" {
			continue
		}

		categories := categoryPath.Iter(record)
		for categories.Next() {
			category := categories.Node()
			if internalPath.Exists(category) {
				continue
			}
			code := strings.TrimSpace(category.String())
			if code == "" {
				continue
			}
			assignments[uuid] = append(assignments[uuid], code)
		}
	}

	return assignments, nil
}

// ParseLabels reads a GeoNetwork xml.info?type=categories response into a map
// of category code to English label. The first label listed for a code wins.
func ParseLabels(r io.Reader) (map[string]string, error) {
	root, err := parse(r)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string)
	categories := categoryInfoPath.Iter(root)
	for categories.Next() {
		category := categories.Node()
		name, ok := namePath.String(category)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		label, ok := englishPath.String(category)
		if !ok {
			slog.Debug("category has no English label", "category", name)
			continue
		}
		if _, seen := labels[name]; seen {
			slog.Debug("duplicate category label ignored", "category", name)
			continue
		}
		labels[name] = strings.TrimSpace(label)
	}

	return labels, nil
}
