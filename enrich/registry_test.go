package enrich

import (
	"reflect"
	"testing"

	"github.com/beevik/etree"
)

type stubEnricher struct{ name string }

func (s *stubEnricher) Name() string { return s.name }
func (s *stubEnricher) Description() string { return "stub" }
func (s *stubEnricher) Apply(_ *etree.Element, _ []string) error { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubEnricher{name: "supplemental"})
	r.Register(&stubEnricher{name: "keywords"})

	tests := []struct {
		name    string
		lookup  string
		want    string
		wantErr bool
	}{
		{name: "exact", lookup: "keywords", want: "keywords"},
		{name: "case insensitive", lookup: "Keywords", want: "keywords"},
		{name: "empty selects default", lookup: "", want: Default},
		{name: "unknown", lookup: "xslt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.Get(tt.lookup)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get(%q) error = %v, wantErr %v", tt.lookup, err, tt.wantErr)
			}
			if err == nil && e.Name() != tt.want {
				t.Errorf("Get(%q) = %s, want %s", tt.lookup, e.Name(), tt.want)
			}
		})
	}

	if got := r.List(); !reflect.DeepEqual(got, []string{"keywords", "supplemental"}) {
		t.Errorf("List: got %v", got)
	}
}
