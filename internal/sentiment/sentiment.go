// Package sentiment scores news coverage for a symbol on a roughly [-3, +3]
// scale, degrading to a neutral zero when no provider is available.
package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// MaxHeadlines caps the representative headlines returned with a score.
const MaxHeadlines = 5

// Placeholder is reported when no news could be scored.
const Placeholder = "No news found or API not configured."

// Provider returns a sentiment score and up to MaxHeadlines headlines.
type Provider interface {
	Score(ctx context.Context, symbol string) (float64, []string, error)
}

// NopProvider always reports neutral sentiment.
type NopProvider struct{}

// Score returns 0.0 with an explanatory placeholder headline.
func (NopProvider) Score(context.Context, string) (float64, []string, error) {
	return 0, []string{Placeholder}, nil
}

const defaultNewsBaseURL = "https://newsdata.io"

// NewsClient pulls recent headlines from a newsdata-style API and scores
// their polarity with a small lexicon.
type NewsClient struct {
	http   *resty.Client
	apiKey string
	log    zerolog.Logger
}

type newsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title string `json:"title"`
	} `json:"results"`
}

// NewNewsClient builds a client; an empty base URL targets the public API.
func NewNewsClient(baseURL, apiKey string, log zerolog.Logger) *NewsClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNewsBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &NewsClient{http: httpClient, apiKey: apiKey, log: log}
}

// Score fetches headlines for the symbol and averages their polarity, scaled
// to [-3, +3]. Every failure path degrades to the neutral placeholder.
func (c *NewsClient) Score(ctx context.Context, symbol string) (float64, []string, error) {
	if c.apiKey == "" {
		return 0, []string{Placeholder}, nil
	}

	var payload newsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.apiKey,
			"q":        symbol,
			"language": "en",
		}).
		SetResult(&payload).
		Get("/api/1/news")
	if err != nil {
		return 0, []string{Placeholder}, fmt.Errorf("fetch news %s: %w", symbol, err)
	}
	if resp.IsError() {
		return 0, []string{Placeholder}, fmt.Errorf("fetch news %s: status %s", symbol, resp.Status())
	}

	titles := make([]string, 0, len(payload.Results))
	for _, r := range payload.Results {
		if t := strings.TrimSpace(r.Title); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return 0, []string{Placeholder}, nil
	}

	score := ScoreHeadlines(titles)
	if len(titles) > MaxHeadlines {
		titles = titles[:MaxHeadlines]
	}
	c.log.Debug().Str("sym", symbol).Float64("score", score).Int("titles", len(titles)).Msg("scored news")
	return score, titles, nil
}

// ScoreHeadlines averages per-headline polarity and scales the [-1, +1]
// average by 3, clamped to the score range shared with the technical side.
func ScoreHeadlines(titles []string) float64 {
	if len(titles) == 0 {
		return 0
	}
	var total float64
	for _, t := range titles {
		total += polarity(t)
	}
	avg := total / float64(len(titles))
	scaled := avg * 3
	if scaled > 3 {
		scaled = 3
	}
	if scaled < -3 {
		scaled = -3
	}
	return scaled
}

var positiveWords = map[string]struct{}{
	"surge": {}, "soar": {}, "soars": {}, "rally": {}, "rallies": {}, "gain": {},
	"gains": {}, "record": {}, "beat": {}, "beats": {}, "bullish": {}, "upgrade": {},
	"upgraded": {}, "growth": {}, "strong": {}, "profit": {}, "profits": {},
	"jump": {}, "jumps": {}, "rise": {}, "rises": {}, "high": {}, "boom": {},
	"breakout": {}, "outperform": {}, "win": {}, "wins": {}, "positive": {},
}

var negativeWords = map[string]struct{}{
	"crash": {}, "plunge": {}, "plunges": {}, "fall": {}, "falls": {}, "drop": {},
	"drops": {}, "loss": {}, "losses": {}, "bearish": {}, "downgrade": {},
	"downgraded": {}, "weak": {}, "miss": {}, "misses": {}, "fear": {}, "fears": {},
	"slump": {}, "slumps": {}, "decline": {}, "declines": {}, "low": {}, "sell-off": {},
	"selloff": {}, "lawsuit": {}, "fraud": {}, "negative": {}, "warning": {},
}

// polarity scores one headline in [-1, +1] from lexicon hits.
func polarity(title string) float64 {
	words := strings.Fields(strings.ToLower(title))
	var pos, neg int
	for _, w := range words {
		w = strings.Trim(w, ".,!?:;\"'()")
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
