package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123", "acme")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.apiKey != "secret123" {
		t.Errorf("expected apiKey=secret123, got %s", c.apiKey)
	}
	if c.tenant != "acme" {
		t.Errorf("expected tenant=acme, got %s", c.tenant)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret", "acme")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "", "acme")
	if err := c.Healthcheck(); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	c := New("http://localhost:59999", "", "acme") // unlikely to be listening
	if err := c.Healthcheck(); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "", "acme")
	if err := c.Healthcheck(); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestFetchEntities_Success(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/acme/flights" {
			t.Errorf("expected path /api/v1/acme/flights, got %s", r.URL.Path)
		}
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "kind": "flight", "lat": 51.5, "lon": -0.1, "altitudeM": 11000},
			{"id": 8}
		]`))
	}))
	defer server.Close()

	c := New(server.URL, "token-1", "acme")
	records, err := c.FetchEntities(context.Background(), "flights")
	if err != nil {
		t.Fatalf("FetchEntities failed: %v", err)
	}

	if receivedAuth != "Bearer token-1" {
		t.Errorf("expected bearer auth header, got %q", receivedAuth)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != 7 || records[0].Kind != "flight" {
		t.Errorf("expected record 7 kind flight, got %+v", records[0])
	}
	if records[0].Lat == nil || *records[0].Lat != 51.5 {
		t.Error("expected lat 51.5")
	}
	if records[1].Lat != nil || records[1].AltitudeM != nil || records[1].HeadingDeg != nil {
		t.Errorf("expected absent optional fields to stay nil, got %+v", records[1])
	}
}

func TestFetchEntities_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no auth header, got %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, "", "acme")
	if _, err := c.FetchEntities(context.Background(), "assets"); err != nil {
		t.Errorf("FetchEntities failed: %v", err)
	}
}

func TestFetchEntities_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.URL, "wrong", "acme")
	if _, err := c.FetchEntities(context.Background(), "assets"); err == nil {
		t.Error("expected error for 403 response")
	}
}

func TestFetchEntities_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	c := New(server.URL, "", "acme")
	if _, err := c.FetchEntities(context.Background(), "units"); err == nil {
		t.Error("expected decode error")
	}
}
