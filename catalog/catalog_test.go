package catalog

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const searchResponse = `<?xml version="1.0" encoding="UTF-8"?>
<response from="1" to="3" selected="0">
  <summary count="3" type="local"/>
  <metadata>
    <title>Sea surface temperature</title>
    <geonet:info xmlns:geonet="http://www.fao.org/geonetwork">
      <id>12</id>
      <uuid>sst-0001</uuid>
      <schema>iso19139</schema>
      <category>oceans</category>
      <category internal="true">staging</category>
      <category>climatology</category>
    </geonet:info>
  </metadata>
  <metadata>
    <title>Buoy positions</title>
    <geonet:info xmlns:geonet="http://www.fao.org/geonetwork">
      <id>13</id>
      <uuid>buoy-0002</uuid>
      <schema>iso19139</schema>
    </geonet:info>
  </metadata>
  <metadata>
    <title>Duplicated category</title>
    <geonet:info xmlns:geonet="http://www.fao.org/geonetwork">
      <id>14</id>
      <uuid>dup-0003</uuid>
      <category>oceans</category>
      <category>oceans</category>
    </geonet:info>
  </metadata>
</response>`

const categoriesResponse = `<?xml version="1.0" encoding="UTF-8"?>
<info>
  <categories>
    <category id="1">
      <name>oceans</name>
      <label><eng>Oceans</eng><fre>Océans</fre></label>
    </category>
    <category id="2">
      <name>climatology</name>
      <label><eng>Climatology, meteorology, atmosphere</eng></label>
    </category>
    <category id="3">
      <name>staging</name>
      <label><fre>Préparation</fre></label>
    </category>
    <category id="4">
      <name>oceans</name>
      <label><eng>Second oceans label</eng></label>
    </category>
  </categories>
</info>`

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments(strings.NewReader(searchResponse))
	if err != nil {
		t.Fatalf("ParseAssignments failed: %v", err)
	}

	want := map[string][]string{
		"sst-0001": {"oceans", "climatology"},
		"dup-0003": {"oceans", "oceans"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseAssignments:\n got %v\nwant %v", got, want)
	}
}

func TestParseLabels(t *testing.T) {
	got, err := ParseLabels(strings.NewReader(categoriesResponse))
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}

	want := map[string]string{
		"oceans":      "Oceans",
		"climatology": "Climatology, meteorology, atmosphere",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLabels:\n got %v\nwant %v", got, want)
	}
}

func TestParseRejectsMalformedXML(t *testing.T) {
	if _, err := ParseAssignments(strings.NewReader(`<response><metadata>`)); err == nil {
		t.Error("ParseAssignments: expected error for truncated XML")
	}
	if _, err := ParseLabels(strings.NewReader(`<info><categories></info>`)); err == nil {
		t.Error("ParseLabels: expected error for mismatched tags")
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex(
		map[string][]string{"sst-0001": {"oceans", "climatology"}, "bad-0004": {"unknown"}},
		map[string]string{"oceans": "Oceans", "climatology": "Climatology"},
	)

	if got := idx.Categories("sst-0001"); !reflect.DeepEqual(got, []string{"oceans", "climatology"}) {
		t.Errorf("Categories: got %v", got)
	}
	if got := idx.Categories("missing"); len(got) != 0 {
		t.Errorf("Categories(missing): got %v", got)
	}

	labels, err := idx.Labels(idx.Categories("sst-0001"))
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"Oceans", "Climatology"}) {
		t.Errorf("Labels: got %v", labels)
	}

	_, err = idx.Labels(idx.Categories("bad-0004"))
	var consistencyErr *ConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("Expected *ConsistencyError, got %v", err)
	}
	if consistencyErr.Code != "unknown" {
		t.Errorf("Code: got %q", consistencyErr.Code)
	}

	if idx.RecordCount() != 2 || idx.LabelCount() != 2 {
		t.Errorf("counts: got %d records, %d labels", idx.RecordCount(), idx.LabelCount())
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	idx := NewIndex(map[string][]string{"a": {"oceans"}}, nil)

	codes := idx.Categories("a")
	codes[0] = "mutated"

	if got := idx.Categories("a"); got[0] != "oceans" {
		t.Errorf("Index was mutated through Categories result: %v", got)
	}
}
