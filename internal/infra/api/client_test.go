package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/outagesync/internal/core/domain"
)

const testAPIKey = "test-key"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", APIKey: testAPIKey, Timeout: 5 * time.Second})
}

func statusHandler(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestClient_ListOutages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/outages" {
			t.Errorf("expected path /outages, got %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected method GET, got %s", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != testAPIKey {
			t.Errorf("expected api key %s, got %q", testAPIKey, got)
		}
		_, _ = io.WriteString(w, `[
			{"id":"002b28fc","begin":"2021-07-26T17:09:31.036Z","end":"2021-08-29T00:37:42.253Z"},
			{"id":"36f1c57b","begin":"2022-05-23T12:21:27.377Z","end":"2022-11-13T02:16:38.905Z","note":"x"}
		]`)
	})

	outages, err := client.ListOutages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outages) != 2 {
		t.Fatalf("expected 2 outages, got %d", len(outages))
	}
	if outages[1].ID != "36f1c57b" || string(outages[1].Extra["note"]) != `"x"` {
		t.Errorf("unexpected outage: %+v", outages[1])
	}
}

func TestClient_FetchSiteInformation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/site-info/norwich%2Fpear-tree" {
			t.Errorf("expected escaped site path, got %s", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{"id":"61774fed","name":"norwich-pear-tree","devices":[{"id":"d1","name":"Device 1"}]}`)
	})

	info, err := client.FetchSiteInformation(context.Background(), "norwich/pear-tree")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "norwich-pear-tree" || len(info.Devices) != 1 || info.Devices[0].Name != "Device 1" {
		t.Errorf("unexpected site information: %+v", info)
	}
}

func TestClient_SubmitOutages(t *testing.T) {
	var received []map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site-outages/norwich-pear-tree" {
			t.Errorf("expected path /site-outages/norwich-pear-tree, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected method POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if got := r.Header.Get("x-api-key"); got != testAPIKey {
			t.Errorf("expected api key %s, got %q", testAPIKey, got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	outages := []domain.OutageDetailed{{
		Outage: domain.Outage{ID: "d1", Begin: "2022-05-23T12:21:27.377Z", End: "2022-11-13T02:16:38.905Z"},
		Name:   "Device 1",
	}}

	if err := client.SubmitOutages(context.Background(), "norwich-pear-tree", outages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 outage in body, got %d", len(received))
	}
	if received[0]["name"] != "Device 1" || received[0]["id"] != "d1" {
		t.Errorf("unexpected body: %v", received[0])
	}
}

func TestClient_SubmitOutages_EmptyListIsArray(t *testing.T) {
	var body string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	})

	if err := client.SubmitOutages(context.Background(), "site", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "[]" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(*Client) error
		expect error
	}{
		{"site info 403", 403, fetchSite, domain.ErrUnauthorized},
		{"site info 404", 404, fetchSite, domain.ErrSiteNotFound},
		{"site info 500", 500, fetchSite, domain.ErrUnknown},
		{"submit 403", 403, submit, domain.ErrUnauthorized},
		{"submit 404", 404, submit, domain.ErrSiteNotFound},
		{"submit 500", 500, submit, domain.ErrUnknown},
		{"submit 429", 429, submit, domain.ErrUnknown},
		{"list 403", 403, listOutages, domain.ErrUnauthorized},
		{"list 404", 404, listOutages, domain.ErrUnknown},
		{"list 500", 500, listOutages, domain.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, statusHandler(tt.status))
			err := tt.call(client)
			if !errors.Is(err, tt.expect) {
				t.Errorf("expected %v, got %v", tt.expect, err)
			}
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	})

	_, err := client.FetchSiteInformation(context.Background(), "site")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if domain.IsRetryable(err) {
		t.Error("malformed response must not be retryable")
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(statusHandler(200))
	server.Close()
	client := NewClient(Config{BaseURL: server.URL, APIKey: testAPIKey, Timeout: time.Second})

	_, err := client.ListOutages(context.Background())
	if !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func fetchSite(c *Client) error {
	_, err := c.FetchSiteInformation(context.Background(), "mock-site")
	return err
}

func submit(c *Client) error {
	return c.SubmitOutages(context.Background(), "mock-site", nil)
}

func listOutages(c *Client) error {
	_, err := c.ListOutages(context.Background())
	return err
}
