package geonetwork

import (
	"context"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/metadown/iso"
)

// FilePrefix tags every harvested file name.
const FilePrefix = "GeoNetwork-"

var identifierPath = iso.MustCompile("/gmd:MD_Metadata/gmd:fileIdentifier/gco:CharacterString")

// Namer derives the output file name for a record download URL.
type Namer interface {
	Name(ctx context.Context, downloadURL string) (string, error)
}

// NewNamer returns the namer registered under kind: "url" (the default)
// or "uuid".
func NewNamer(kind string, client *Client) (Namer, error) {
	switch strings.ToLower(kind) {
	case "", "url":
		return URLNamer{}, nil
	case "uuid":
		return &IdentifierNamer{client: client}, nil
	default:
		return nil, fmt.Errorf("unknown namer: %s (supported: url, uuid)", kind)
	}
}

// FileName wraps a record key into an output file name.
func FileName(key string) string {
	return FilePrefix + key + ".xml"
}

// URLNamer names a record by the query value following the first "=" in
// its download URL. It never touches the network.
type URLNamer struct{}

func (URLNamer) Name(_ context.Context, downloadURL string) (string, error) {
	_, query, ok := strings.Cut(downloadURL, "?")
	if !ok {
		return "", fmt.Errorf("naming %s: no query string", downloadURL)
	}
	_, value, ok := strings.Cut(query, "=")
	if !ok {
		return "", fmt.Errorf("naming %s: query has no value", downloadURL)
	}
	return FileName(value), nil
}

// IdentifierNamer names a record by its file identifier, fetching the
// record to read it.
type IdentifierNamer struct {
	client *Client
}

func NewIdentifierNamer(client *Client) *IdentifierNamer {
	return &IdentifierNamer{client: client}
}

func (n *IdentifierNamer) Name(ctx context.Context, downloadURL string) (string, error) {
	doc, err := n.client.GetDocument(ctx, downloadURL)
	if err != nil {
		return "", err
	}

	leaf, err := identifierPath.One(doc.Root())
	if err != nil {
		return "", fmt.Errorf("naming %s: %w", downloadURL, err)
	}
	id := strings.TrimSpace(leaf.Text())
	if id == "" {
		return "", fmt.Errorf("naming %s: %w", downloadURL, &iso.LookupError{Path: identifierPath.String()})
	}

	return FileName(id), nil
}
