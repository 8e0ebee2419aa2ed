// Package gntest provides an in-process fake GeoNetwork catalog for tests.
package gntest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Record is one catalog entry served by a Server.
type Record struct {
	ID         string
	UUID       string
	Schema     string // defaults to iso19139
	Categories []string
	Internal   []string // categories flagged internal="true"

	// XML replaces the generated ISO19139 document when set.
	XML string
}

// Server is a fake catalog rooted at its URL. Records are served from
// /srv/en/xml_iso19139, the category relations from /srv/en/xml.search
// and /srv/en/xml.info.
type Server struct {
	*httptest.Server

	records []Record
	labels  map[string]string

	mu       sync.Mutex
	hits     map[string]int
	failures map[string]int
}

// NewServer starts a fake catalog that is closed when the test ends.
func NewServer(t testing.TB, records []Record, labels map[string]string) *Server {
	t.Helper()

	s := &Server{
		records:  records,
		labels:   labels,
		hits:     make(map[string]int),
		failures: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail makes every request to path answer with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// RecordURL returns the download URL of a catalog id.
func (s *Server) RecordURL(id string) string {
	return s.URL + "/srv/en/xml_iso19139?id=" + id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	status, fail := s.failures[r.URL.Path]
	s.mu.Unlock()

	if fail {
		http.Error(w, "catalog unavailable", status)
		return
	}

	switch r.URL.Path {
	case "/srv/en/csv.search":
		w.Header().Set("Content-Type", "text/csv; charset=UTF-8")
		fmt.Fprint(w, s.searchCSV())
	case "/srv/en/xml_iso19139":
		rec, ok := s.record(r.URL.Query().Get("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		if rec.XML != "" {
			fmt.Fprint(w, rec.XML)
			return
		}
		fmt.Fprint(w, RecordXML(rec.UUID))
	case "/srv/en/xml.search":
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, s.searchXML())
	case "/srv/en/xml.info":
		if r.URL.Query().Get("type") != "categories" {
			http.Error(w, "unsupported info type", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, s.categoriesXML())
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) record(id string) (Record, bool) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// RecordXML renders a minimal ISO19139 record.
func RecordXML(uuid string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd" xmlns:gco="http://www.isotc211.org/2005/gco">
  <gmd:fileIdentifier>
    <gco:CharacterString>` + escape(uuid) + `</gco:CharacterString>
  </gmd:fileIdentifier>
  <gmd:identificationInfo>
    <gmd:MD_DataIdentification>
      <gmd:abstract>
        <gco:CharacterString>Fixture record</gco:CharacterString>
      </gmd:abstract>
    </gmd:MD_DataIdentification>
  </gmd:identificationInfo>
</gmd:MD_Metadata>`
}

func (s *Server) searchCSV() string {
	var b strings.Builder
	b.WriteString("id,uuid,schema,title\n")
	for _, rec := range s.records {
		fmt.Fprintf(&b, "%s,%s,%s,\"Record %s\"\n", rec.ID, rec.UUID, schemaOf(rec), rec.ID)
	}
	return b.String()
}

func (s *Server) searchXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<response>\n")
	for _, rec := range s.records {
		b.WriteString(`  <metadata><geonet:info xmlns:geonet="http://www.fao.org/geonetwork">`)
		fmt.Fprintf(&b, "<id>%s</id><uuid>%s</uuid>", escape(rec.ID), escape(rec.UUID))
		for _, code := range rec.Categories {
			fmt.Fprintf(&b, "<category>%s</category>", escape(code))
		}
		for _, code := range rec.Internal {
			fmt.Fprintf(&b, `<category internal="true">%s</category>`, escape(code))
		}
		b.WriteString("</geonet:info></metadata>\n")
	}
	b.WriteString("</response>")
	return b.String()
}

func (s *Server) categoriesXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<info><categories>\n")
	for code, label := range s.labels {
		fmt.Fprintf(&b, "  <category><name>%s</name><label><eng>%s</eng></label></category>\n",
			escape(code), escape(label))
	}
	b.WriteString("</categories></info>")
	return b.String()
}

func schemaOf(rec Record) string {
	if rec.Schema == "" {
		return "iso19139"
	}
	return rec.Schema
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
