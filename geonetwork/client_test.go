package geonetwork

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "metadown" {
			t.Errorf("User-Agent = %q, want metadown", got)
		}
		http.Error(w, strings.Repeat("x", 2048), http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(0, 0).Get(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Get error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", fetchErr.StatusCode)
	}
	if len(fetchErr.Body) != errorBodyLimit {
		t.Errorf("Body length = %d, want %d", len(fetchErr.Body), errorBodyLimit)
	}
	if fetchErr.URL != srv.URL {
		t.Errorf("URL = %q, want %q", fetchErr.URL, srv.URL)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second, 0).Get(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Get error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Err == nil {
		t.Errorf("FetchError = %+v, want transport cause and no status", fetchErr)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(50*time.Millisecond, 0).Get(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Get error = %v, want *FetchError", err)
	}
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(0, 0.001)
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("first Get failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("throttled Get error = %v, want *FetchError", err)
	}
}

func TestGetDocumentParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<gmd:MD_Metadata><unclosed>"))
	}))
	defer srv.Close()

	_, err := NewClient(0, 0).GetDocument(context.Background(), srv.URL)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("GetDocument error = %v, want *ParseError", err)
	}
}
