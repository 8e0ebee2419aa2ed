package keywords

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/metadown/iso"
)

var keywordTextPath = iso.MustCompile("gmd:descriptiveKeywords/gmd:MD_Keywords/gmd:keyword/gco:CharacterString")

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		inner     string
		labels    []string
		want      []string
		wantOrder []string
	}{
		{
			name:      "creates block",
			labels:    []string{"Oceans", "Climatology"},
			want:      []string{"Oceans", "Climatology"},
			wantOrder: []string{"keyword", "keyword"},
		},
		{
			name: "extends existing keywords before thesaurus",
			inner: `<gmd:descriptiveKeywords><gmd:MD_Keywords>
  <gmd:keyword><gco:CharacterString>SST</gco:CharacterString></gmd:keyword>
  <gmd:type/>
  <gmd:thesaurusName/>
</gmd:MD_Keywords></gmd:descriptiveKeywords>`,
			labels:    []string{"Oceans"},
			want:      []string{"SST", "Oceans"},
			wantOrder: []string{"keyword", "keyword", "type", "thesaurusName"},
		},
		{
			name:      "block without keywords",
			inner:     `<gmd:descriptiveKeywords><gmd:MD_Keywords><gmd:type/></gmd:MD_Keywords></gmd:descriptiveKeywords>`,
			labels:    []string{"Oceans", "Oceans"},
			want:      []string{"Oceans", "Oceans"},
			wantOrder: []string{"keyword", "keyword", "type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `<gmd:MD_DataIdentification xmlns:gmd="http://www.isotc211.org/2005/gmd" xmlns:gco="http://www.isotc211.org/2005/gco">` +
				tt.inner + `</gmd:MD_DataIdentification>`
			doc, err := iso.ReadDocument(strings.NewReader(input))
			if err != nil {
				t.Fatalf("ReadDocument failed: %v", err)
			}
			dataID := doc.Root()

			if err := (&Enricher{}).Apply(dataID, tt.labels); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			var got []string
			for _, el := range keywordTextPath.FindAll(dataID) {
				got = append(got, el.Text())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("keywords: got %v, want %v", got, tt.want)
			}

			blocks := keywordsPath.FindAll(dataID)
			if len(blocks) != 1 {
				t.Fatalf("Expected 1 MD_Keywords block, got %d", len(blocks))
			}
			var order []string
			for _, child := range blocks[0].ChildElements() {
				order = append(order, child.Tag)
			}
			if !reflect.DeepEqual(order, tt.wantOrder) {
				t.Errorf("child order: got %v, want %v", order, tt.wantOrder)
			}
		})
	}
}
