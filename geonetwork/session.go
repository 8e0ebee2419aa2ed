package geonetwork

import (
	"context"

	"github.com/lehigh-university-libraries/metadown/catalog"
	"github.com/lehigh-university-libraries/metadown/transform"
)

// Session transforms records of one or more catalogs with a fixed
// Transformer. With caching enabled, each catalog's category index is
// fetched once per Session; otherwise every record fetches it afresh.
type Session struct {
	client      *Client
	transformer *transform.Transformer
	cache       *IndexCache
}

func NewSession(client *Client, transformer *transform.Transformer, cache bool) *Session {
	s := &Session{
		client:      client,
		transformer: transformer,
	}
	if cache {
		s.cache = NewIndexCache(client.LoadIndex)
	}
	return s
}

// Client returns the HTTP client the session fetches with.
func (s *Session) Client() *Client {
	return s.client
}

// Cached reports whether category indexes are reused across records.
func (s *Session) Cached() bool {
	return s.cache != nil
}

// Index returns the category index under auxBase.
func (s *Session) Index(ctx context.Context, auxBase string) (*catalog.Index, error) {
	if s.cache != nil {
		return s.cache.Get(ctx, auxBase)
	}
	return s.client.LoadIndex(ctx, auxBase)
}

// Transform fetches the record at recordURL, loads its catalog's category
// index, and rewrites the record.
func (s *Session) Transform(ctx context.Context, recordURL string) (*transform.Result, error) {
	doc, err := s.client.GetDocument(ctx, recordURL)
	if err != nil {
		return nil, err
	}

	auxBase, err := AuxiliaryBase(recordURL)
	if err != nil {
		return nil, err
	}

	idx, err := s.Index(ctx, auxBase)
	if err != nil {
		return nil, err
	}

	return s.transformer.Transform(doc, idx)
}
