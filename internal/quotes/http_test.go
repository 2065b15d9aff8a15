package quotes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHTTPClientLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"symbol":"AAPL","name":"Apple Inc.","price":187.42}`))
		case "NFLX":
			// price as a JSON string is accepted too
			w.Write([]byte(`{"symbol":"NFLX","name":"Netflix, Inc.","price":"400.10"}`))
		case "FREE":
			w.Write([]byte(`{"symbol":"FREE","name":"Worthless Co","price":0}`))
		case "BROK":
			w.Write([]byte(`{"symbol":`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second, testLogger())
	ctx := context.Background()

	t.Run("known ticker returns quote", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "AAPL")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote == nil {
			t.Fatal("Expected quote, got absent")
		}
		if quote.Symbol != "AAPL" || quote.Name != "Apple Inc." {
			t.Errorf("Quote = %+v", quote)
		}
		if quote.Price.String() != "187.42" {
			t.Errorf("Price = %s, want 187.42", quote.Price)
		}
	})

	t.Run("ticker is case-normalized before lookup", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "  nflx ")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote == nil {
			t.Fatal("Expected quote, got absent")
		}
		if quote.Symbol != "NFLX" {
			t.Errorf("Symbol = %q, want NFLX", quote.Symbol)
		}
	})

	t.Run("unknown ticker is absent", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "ZZZZ")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote != nil {
			t.Errorf("Expected absent, got %+v", quote)
		}
	})

	t.Run("zero price is absent", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "FREE")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote != nil {
			t.Errorf("Expected absent, got %+v", quote)
		}
	})

	t.Run("malformed body is absent", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "BROK")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote != nil {
			t.Errorf("Expected absent, got %+v", quote)
		}
	})

	t.Run("empty ticker is absent", func(t *testing.T) {
		quote, err := client.Lookup(ctx, "   ")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if quote != nil {
			t.Errorf("Expected absent, got %+v", quote)
		}
	})
}

func TestHTTPClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"symbol":"AAPL","name":"Apple Inc.","price":187.42}`))
	}))
	defer slow.Close()

	client := NewHTTPClient(slow.URL, 20*time.Millisecond, testLogger())

	quote, err := client.Lookup(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Timeout should be absent, not an error: %v", err)
	}
	if quote != nil {
		t.Errorf("Expected absent on timeout, got %+v", quote)
	}
}

func TestHTTPClientUnreachable(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", 100*time.Millisecond, testLogger())

	quote, err := client.Lookup(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Connection failure should be absent, not an error: %v", err)
	}
	if quote != nil {
		t.Errorf("Expected absent, got %+v", quote)
	}
}
