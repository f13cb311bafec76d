package cj

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beezio/beezio-backend/pkg/config"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(config.SupplierConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestAccessTokenCached(t *testing.T) {
	var tokenCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tokenPath {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		atomic.AddInt64(&tokenCalls, 1)

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["apiKey"] != "test-key" {
			t.Fatalf("apiKey = %q, want test-key", body["apiKey"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"data": map[string]string{
				"accessToken":           "tok-1",
				"accessTokenExpiryDate": time.Now().Add(time.Hour).Format(time.RFC3339),
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		token, err := client.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken: %v", err)
		}
		if token != "tok-1" {
			t.Fatalf("token = %q, want tok-1", token)
		}
	}
	if got := atomic.LoadInt64(&tokenCalls); got != 1 {
		t.Fatalf("token endpoint called %d times, want 1", got)
	}
}

func TestAccessTokenRefreshesAfterExpiry(t *testing.T) {
	var tokenCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&tokenCalls, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"data": map[string]string{
				"accessToken":           "tok-" + string(rune('0'+n)),
				"accessTokenExpiryDate": time.Now().Add(time.Hour).Format(time.RFC3339),
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	now := time.Now()
	client.clock = func() time.Time { return now }

	ctx := context.Background()
	if _, err := client.AccessToken(ctx); err != nil {
		t.Fatalf("AccessToken: %v", err)
	}

	// Jump the clock past the provider expiry.
	client.clock = func() time.Time { return now.Add(2 * time.Hour) }
	token, err := client.AccessToken(ctx)
	if err != nil {
		t.Fatalf("AccessToken after expiry: %v", err)
	}
	if token != "tok-2" {
		t.Fatalf("token = %q, want tok-2", token)
	}
	if got := atomic.LoadInt64(&tokenCalls); got != 2 {
		t.Fatalf("token endpoint called %d times, want 2", got)
	}
}

func TestAccessTokenProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result":  false,
			"message": "invalid api key",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.AccessToken(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryProductCostSendsTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"data": map[string]string{
					"accessToken":           "tok-live",
					"accessTokenExpiryDate": time.Now().Add(time.Hour).Format(time.RFC3339),
				},
			})
		case "/product/variant/query":
			if got := r.Header.Get("CJ-Access-Token"); got != "tok-live" {
				t.Fatalf("CJ-Access-Token = %q, want tok-live", got)
			}
			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode query: %v", err)
			}
			if req["pid"] != "p1" || req["vid"] != "v1" {
				t.Fatalf("unexpected query payload: %v", req)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"data":   map[string]any{"pid": "p1", "vid": "v1", "sellPrice": 7.25},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	cost, err := client.QueryProductCost(context.Background(), "p1", "v1")
	if err != nil {
		t.Fatalf("QueryProductCost: %v", err)
	}
	if cost.SellPrice != 7.25 {
		t.Fatalf("sellPrice = %v, want 7.25", cost.SellPrice)
	}
}

func TestQueryProductCostValidation(t *testing.T) {
	client := newTestClient(t, httptest.NewServer(http.NotFoundHandler()))
	_, err := client.QueryProductCost(context.Background(), "", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.SupplierConfig{BaseURL: "http://localhost"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConfig {
		t.Fatalf("unexpected error: %v", err)
	}
}
