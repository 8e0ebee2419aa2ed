package geonetwork

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/metadown/geonetwork/gntest"
)

func TestAuxiliaryBase(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "http://gn/geonetwork/srv/en/xml_iso19139?id=12", want: "http://gn/geonetwork/srv/en"},
		{url: "http://gn/srv/en/", want: "http://gn/srv/en"},
		{url: "xml_iso19139?id=12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := AuxiliaryBase(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("AuxiliaryBase failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("AuxiliaryBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadIndex(t *testing.T) {
	srv := gntest.NewServer(t, []gntest.Record{
		{ID: "12", UUID: "sst-0001", Categories: []string{"oceans", "climatology"}, Internal: []string{"staging"}},
		{ID: "13", UUID: "buoy-0002"},
	}, map[string]string{"oceans": "Oceans", "climatology": "Climatology"})

	idx, err := NewClient(0, 0).LoadIndex(context.Background(), srv.URL+"/srv/en")
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	if got, want := idx.Categories("sst-0001"), []string{"oceans", "climatology"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
	if got := idx.Categories("buoy-0002"); len(got) != 0 {
		t.Errorf("Categories(buoy-0002) = %v, want none", got)
	}
	if label, err := idx.Label("oceans"); err != nil || label != "Oceans" {
		t.Errorf("Label(oceans) = %q, %v", label, err)
	}
	if srv.Hits("/srv/en/xml.search") != 1 || srv.Hits("/srv/en/xml.info") != 1 {
		t.Errorf("hits: xml.search=%d xml.info=%d, want 1 each",
			srv.Hits("/srv/en/xml.search"), srv.Hits("/srv/en/xml.info"))
	}
}

func TestLoadIndexFetchError(t *testing.T) {
	srv := gntest.NewServer(t, nil, nil)
	srv.Fail("/srv/en/xml.info", http.StatusInternalServerError)

	_, err := NewClient(0, 0).LoadIndex(context.Background(), srv.URL+"/srv/en")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("LoadIndex error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", fetchErr.StatusCode)
	}
}

func TestLoadIndexParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<response><metadata>"))
	}))
	defer srv.Close()

	_, err := NewClient(0, 0).LoadIndex(context.Background(), srv.URL)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("LoadIndex error = %v, want *ParseError", err)
	}
	if parseErr.Source != srv.URL+"/xml.search" {
		t.Errorf("Source = %q, want the xml.search URL", parseErr.Source)
	}
}
