package pkgrouter

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeBody(t *testing.T) {
	var got map[string]any
	h := Sanitize()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("decode sanitized body: %v", err)
		}
	}))

	body := `{"name":"<script>alert(1)</script>Devworks","email":{"$gt":""},"$where":"1","a.b":1,"tags":["<b>x</b>"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got["name"] != "Devworks" {
		t.Fatalf("expected markup stripped, got %q", got["name"])
	}
	if email, _ := got["email"].(map[string]any); len(email) != 0 {
		t.Fatalf("expected operator key dropped, got %v", got["email"])
	}
	if _, ok := got["$where"]; ok {
		t.Fatalf("expected $where dropped")
	}
	if _, ok := got["a.b"]; ok {
		t.Fatalf("expected dotted key dropped")
	}
	if tags := got["tags"].([]any); tags[0] != "x" {
		t.Fatalf("expected nested string sanitized, got %v", tags)
	}
}

func TestSanitizeQueryAndInvalidBody(t *testing.T) {
	var query, body string
	h := Sanitize()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}))

	req := httptest.NewRequest(http.MethodPost, "/?$where=1&location.state=MA", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if query != "location.state=MA" {
		t.Fatalf("unexpected query %q", query)
	}
	if body != "{not json" {
		t.Fatalf("expected invalid body untouched, got %q", body)
	}
}

func TestParameterPollution(t *testing.T) {
	var got map[string][]string
	h := ParameterPollution("careers")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
	}))

	req := httptest.NewRequest(http.MethodGet, "/?sort=name&sort=-createdAt&careers=a&careers=b", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(got["sort"]) != 1 || got["sort"][0] != "-createdAt" {
		t.Fatalf("expected last sort value, got %v", got["sort"])
	}
	if len(got["careers"]) != 2 {
		t.Fatalf("expected allowed key kept, got %v", got["careers"])
	}
}
