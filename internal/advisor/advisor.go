// Package advisor turns a ranked universe into a human-readable briefing,
// optionally narrated by a language model. Narration is strictly best-effort.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/ensemble"
)

// TopSignalsSummary renders the best long and short candidates as a fixed
// width table suitable for logs and terminals.
func TopSignalsSummary(long, short []ensemble.Entry) string {
	var b strings.Builder
	b.WriteString("TOP LONG CANDIDATES\n")
	writeEntries(&b, long)
	b.WriteString("\nTOP SHORT CANDIDATES\n")
	writeEntries(&b, short)
	return b.String()
}

func writeEntries(b *strings.Builder, entries []ensemble.Entry) {
	if len(entries) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	fmt.Fprintf(b, "  %-12s %-10s %12s %6s %6s %12s\n",
		"SYMBOL", "DECISION", "COMPOSITE", "TECH", "NEWS", "CLOSE")
	for _, e := range entries {
		fmt.Fprintf(b, "  %-12s %-10s %12.2f %6d %6.1f %12.2f\n",
			e.Asset.Symbol, string(e.Tech.Decision), e.Composite,
			e.Tech.Score, e.NewsScore, e.Snapshot.Close)
	}
}

// Narrator produces a prose commentary for a rendered summary.
type Narrator interface {
	Narrate(ctx context.Context, summary string) (string, error)
}

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIClient narrates summaries through a chat-completions endpoint.
type OpenAIClient struct {
	http  *resty.Client
	model string
	key   string
	log   zerolog.Logger
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient builds a narrator; an empty base URL targets the public API.
func NewOpenAIClient(baseURL, apiKey, model string, log zerolog.Logger) *OpenAIClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenAIBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second)
	return &OpenAIClient{http: httpClient, model: model, key: apiKey, log: log}
}

const systemPrompt = "You are a market analyst. Summarize the signal table " +
	"below in a short paragraph: strongest candidates first, then notable " +
	"risks. Do not give financial advice."

// Narrate asks the model for a commentary on the summary. Errors are returned
// for the caller to log; the pipeline must not depend on the result.
func (c *OpenAIClient) Narrate(ctx context.Context, summary string) (string, error) {
	if c.key == "" {
		return "", fmt.Errorf("narrator: api key not configured")
	}

	var payload chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.key).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: summary},
			},
		}).
		SetResult(&payload).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("narrator: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("narrator: status %s", resp.Status())
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("narrator: empty response")
	}
	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}
