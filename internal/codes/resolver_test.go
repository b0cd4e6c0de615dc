package codes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"multi-unit-enrichment/internal/models"
	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/pkg/logging"
)

var testAddress = models.ParsedAddress{Sigungu: "강남구", Bjdong: "역삼동", Bun: "0007", Ji: "0003"}

func newTestResolver(url string, attempts int) *Resolver {
	return NewResolver(url, &http.Client{Timeout: time.Second}, attempts, time.Millisecond, logging.Nop())
}

func TestResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var in []models.ParsedAddress
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("request body not a parsed-address array: %v", err)
		}
		if len(in) != 1 || in[0].Sigungu != "강남구" {
			t.Errorf("unexpected request payload: %+v", in)
		}
		w.Write([]byte(`[{"시군구코드":"11680","법정동코드":"10100"}]`))
	}))
	defer srv.Close()

	got, err := newTestResolver(srv.URL, 2).Resolve(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got.SigunguCode != "11680" || got.BjdongCode != "10100" {
		t.Errorf("Resolve() codes = %q/%q, want 11680/10100", got.SigunguCode, got.BjdongCode)
	}
	if got.Bun != "0007" || got.Ji != "0003" {
		t.Errorf("Resolve() should carry parcel numbers through, got %+v", got)
	}
}

func TestResolveNumericCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"시군구코드":11680,"법정동코드":10100}]`))
	}))
	defer srv.Close()

	got, err := newTestResolver(srv.URL, 2).Resolve(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got.SigunguCode != "11680" || got.BjdongCode != "10100" {
		t.Errorf("numeric codes should coerce to strings, got %q/%q", got.SigunguCode, got.BjdongCode)
	}
}

func TestResolveRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`[{"시군구코드":"","법정동코드":""}]`))
			return
		}
		w.Write([]byte(`[{"시군구코드":"11680","법정동코드":"10100"}]`))
	}))
	defer srv.Close()

	got, err := newTestResolver(srv.URL, 2).Resolve(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got.SigunguCode != "11680" {
		t.Errorf("Resolve() = %+v after retry, want resolved codes", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 lookup calls, got %d", n)
	}
}

func TestResolveExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestResolver(srv.URL, 2).Resolve(context.Background(), testAddress)
	if err == nil {
		t.Fatal("Resolve() expected error after exhausting retries")
	}
	if !apperrors.IsExternal(err) {
		t.Errorf("exhaustion should surface as an external API error, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 lookup calls, got %d", n)
	}
}

func TestResolveEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newTestResolver(srv.URL, 1).Resolve(context.Background(), testAddress); err == nil {
		t.Fatal("Resolve() expected error for empty response array")
	}
}
