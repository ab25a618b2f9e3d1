package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultChartBaseURL = "https://query1.finance.yahoo.com"
	chartPathFmt        = "/v8/finance/chart/%s"

	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

// ChartClient fetches daily OHLCV bars from a Yahoo-style chart endpoint.
// It implements both BarProvider and HistoryProvider.
type ChartClient struct {
	http *resty.Client
	log  zerolog.Logger
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewChartClient builds a retrying HTTP client against the given base URL
// (empty means the public Yahoo endpoint).
func NewChartClient(baseURL string, log zerolog.Logger) *ChartClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultChartBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		SetHeader("User-Agent", "ai-trading-agents/1.0")

	return &ChartClient{http: httpClient, log: log}
}

// Bars returns the latest daily bars covering roughly the requested number of
// calendar days.
func (c *ChartClient) Bars(ctx context.Context, symbol string, days int) ([]Bar, error) {
	if days <= 0 {
		days = 365
	}
	return c.fetch(ctx, symbol, map[string]string{
		"range":    fmt.Sprintf("%dd", days),
		"interval": "1d",
	})
}

// History returns daily bars for the [from, to] date range.
func (c *ChartClient) History(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	return c.fetch(ctx, symbol, map[string]string{
		"period1":  fmt.Sprintf("%d", from.Unix()),
		"period2":  fmt.Sprintf("%d", to.Unix()),
		"interval": "1d",
	})
}

func (c *ChartClient) fetch(ctx context.Context, symbol string, params map[string]string) ([]Bar, error) {
	var payload chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		Get(fmt.Sprintf(chartPathFmt, symbol))
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch bars %s: status %s", symbol, resp.Status())
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("fetch bars %s: %s: %w", symbol, payload.Chart.Error.Code, ErrDataUnavailable)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrDataUnavailable)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrDataUnavailable)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		cl := at(quote.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		var vol float64
		if v := at(quote.Volume, i); v != nil {
			vol = *v
		}
		bars = append(bars, Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *cl,
			Volume: vol,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrDataUnavailable)
	}
	if err := Validate(bars); err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	c.log.Debug().Str("sym", symbol).Int("bars", len(bars)).Msg("fetched bars")
	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
