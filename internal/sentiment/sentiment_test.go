package sentiment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestNopProviderNeutral(t *testing.T) {
	score, titles, err := NopProvider{}.Score(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected neutral score, got %.2f", score)
	}
	if len(titles) != 1 || titles[0] != Placeholder {
		t.Fatalf("expected placeholder headline, got %v", titles)
	}
}

func TestScoreHeadlinesPolarity(t *testing.T) {
	bullish := ScoreHeadlines([]string{
		"Bitcoin surges to record high",
		"Crypto rally gains strength",
	})
	if bullish <= 0 {
		t.Fatalf("expected positive score, got %.2f", bullish)
	}
	if bullish > 3 {
		t.Fatalf("score above clamp: %.2f", bullish)
	}

	bearish := ScoreHeadlines([]string{
		"Stocks plunge as fears mount",
		"Tech selloff deepens losses",
	})
	if bearish >= 0 {
		t.Fatalf("expected negative score, got %.2f", bearish)
	}
	if bearish < -3 {
		t.Fatalf("score below clamp: %.2f", bearish)
	}

	if neutral := ScoreHeadlines([]string{"Company announces quarterly results"}); neutral != 0 {
		t.Fatalf("expected neutral score, got %.2f", neutral)
	}
	if empty := ScoreHeadlines(nil); empty != 0 {
		t.Fatalf("expected zero for no titles, got %.2f", empty)
	}
}

func TestNewsClientScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","results":[
			{"title":"Bitcoin surges to record high"},
			{"title":"Analysts see strong growth ahead"},
			{"title":"Minor pullback expected"},
			{"title":"t4"},{"title":"t5"},{"title":"t6"},{"title":"t7"}
		]}`))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "test-key", zerolog.Nop())
	score, titles, err := client.Score(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if score <= 0 {
		t.Fatalf("expected positive score, got %.2f", score)
	}
	if len(titles) != MaxHeadlines {
		t.Fatalf("expected %d headlines, got %d", MaxHeadlines, len(titles))
	}
}

func TestNewsClientMissingKey(t *testing.T) {
	client := NewNewsClient("http://localhost:1", "", zerolog.Nop())
	score, titles, err := client.Score(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("missing key should not error: %v", err)
	}
	if score != 0 || len(titles) != 1 || titles[0] != Placeholder {
		t.Fatalf("expected neutral fallback, got %.2f %v", score, titles)
	}
}

func TestNewsClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "test-key", zerolog.Nop())
	score, titles, err := client.Score(context.Background(), "BTC-USD")
	if err == nil {
		t.Fatalf("expected error from failing server")
	}
	if score != 0 || len(titles) != 1 {
		t.Fatalf("expected neutral degrade on error, got %.2f %v", score, titles)
	}
}
