package geonetwork

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/metadown/catalog"
	"github.com/lehigh-university-libraries/metadown/enrich/supplemental"
	"github.com/lehigh-university-libraries/metadown/geonetwork/gntest"
	"github.com/lehigh-university-libraries/metadown/iso"
	"github.com/lehigh-university-libraries/metadown/transform"
)

func newCatalog(t *testing.T) *gntest.Server {
	return gntest.NewServer(t, []gntest.Record{
		{ID: "12", UUID: "sst-0001", Categories: []string{"oceans"}},
		{ID: "13", UUID: "buoy-0002"},
		{ID: "14", UUID: "orphan-0003", Categories: []string{"unlabelled"}},
		{ID: "15", XML: `<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd"/>`},
	}, map[string]string{"oceans": "Oceans"})
}

func TestSessionTransform(t *testing.T) {
	srv := newCatalog(t)
	s := NewSession(NewClient(0, 0), transform.New(&supplemental.Enricher{}), true)

	res, err := s.Transform(context.Background(), srv.RecordURL("12"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if res.FileIdentifier != "sst-0001" {
		t.Errorf("FileIdentifier = %q, want sst-0001", res.FileIdentifier)
	}
	out := string(res.XML)
	if !strings.Contains(out, `GeoNetwork Categories: "Oceans"`) {
		t.Errorf("output lacks category line:\n%s", out)
	}
	if !strings.Contains(out, "<gmi:MI_Metadata") {
		t.Errorf("output root not renamed:\n%s", out)
	}
}

func TestSessionCaching(t *testing.T) {
	tests := []struct {
		name  string
		cache bool
		want  int
	}{
		{name: "cached", cache: true, want: 1},
		{name: "uncached", cache: false, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCatalog(t)
			s := NewSession(NewClient(0, 0), transform.New(&supplemental.Enricher{}), tt.cache)
			if s.Cached() != tt.cache {
				t.Errorf("Cached = %v, want %v", s.Cached(), tt.cache)
			}

			for _, id := range []string{"12", "13"} {
				if _, err := s.Transform(context.Background(), srv.RecordURL(id)); err != nil {
					t.Fatalf("Transform(%s) failed: %v", id, err)
				}
			}

			if got := srv.Hits("/srv/en/xml.search"); got != tt.want {
				t.Errorf("xml.search hits = %d, want %d", got, tt.want)
			}
			if got := srv.Hits("/srv/en/xml.info"); got != tt.want {
				t.Errorf("xml.info hits = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionTransformErrors(t *testing.T) {
	srv := newCatalog(t)
	s := NewSession(NewClient(0, 0), transform.New(&supplemental.Enricher{}), true)
	ctx := context.Background()

	_, err := s.Transform(ctx, srv.RecordURL("14"))
	var consistencyErr *catalog.ConsistencyError
	if !errors.As(err, &consistencyErr) || consistencyErr.Code != "unlabelled" {
		t.Errorf("unlabelled category: error = %v, want *catalog.ConsistencyError", err)
	}

	_, err = s.Transform(ctx, srv.RecordURL("15"))
	var lookupErr *iso.LookupError
	if !errors.As(err, &lookupErr) {
		t.Errorf("missing identifier: error = %v, want *iso.LookupError", err)
	}

	_, err = s.Transform(ctx, srv.RecordURL("404"))
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("missing record: error = %v, want *FetchError", err)
	}
}
