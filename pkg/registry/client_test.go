package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Lookup(t *testing.T) {
	var gotPath, gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAccept = r.Header.Get("accept")
		switch r.URL.Path {
		case "/commercial-registration/fullinfo/1010123456":
			w.Write([]byte(`{"crNumber": 1010123456, "tradeName": "Acme Trading", "issueDate": "2021-04-01"}`))
		case "/commercial-registration/fullinfo/404":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL + "/", APIKey: "secret"}, nil, nil)

	rec, err := c.Lookup(context.Background(), " 1010123456 ")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if gotPath != "/commercial-registration/fullinfo/1010123456" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" || gotAccept != "application/json" {
		t.Errorf("headers apikey=%q accept=%q", gotKey, gotAccept)
	}
	want := Record{CRNumber: "1010123456", CompanyName: "Acme Trading", IssueDateGregorian: "2021-04-01"}
	if *rec != want {
		t.Errorf("Lookup() = %+v, want %+v", *rec, want)
	}

	if _, err := c.Lookup(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(404) error = %v, want ErrNotFound", err)
	}

	_, err = c.Lookup(context.Background(), "500")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Lookup(500) error = %v, want *HTTPError 502", err)
	}
}

func TestClient_MissingAPIKey(t *testing.T) {
	c := NewClient(Config{}, nil, nil)
	if _, err := c.Lookup(context.Background(), "1"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Lookup() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, APIKey: "k", Timeout: 20 * time.Millisecond}, nil, nil)
	if _, err := c.Lookup(context.Background(), "1"); err == nil {
		t.Error("Lookup() error = nil, want timeout")
	}
}

func TestRecordFromRaw_Precedence(t *testing.T) {
	rec := recordFromRaw(map[string]any{
		"commercialRegistrationNumber": "",
		"id":                           "77",
		"commercialName":               "Primary",
		"name":                         "Fallback",
		"registrationDate":             "2019-01-01",
	})
	if rec.CRNumber != "77" || rec.CompanyName != "Primary" || rec.IssueDateGregorian != "2019-01-01" {
		t.Errorf("recordFromRaw() = %+v", rec)
	}
}

func TestRecord_ToDocument(t *testing.T) {
	doc := (&Record{CRNumber: "1", CompanyName: "Acme"}).ToDocument()
	if doc["doc_type"] != DocType || doc["page_count"] != 1 {
		t.Errorf("doc = %v", doc)
	}
	fields := doc["fields"].(map[string]any)
	if fields["cr_number"] != "1" || fields["issue_date_gregorian"] != nil {
		t.Errorf("fields = %v", fields)
	}
}
