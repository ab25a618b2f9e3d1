package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
)

// PriceStream pushes live trade prices over a websocket connection so the
// paper engine can mark open trades to market.
type PriceStream struct {
	baseURL string
	symbols []string
	// names maps the lowercase wire symbol back to the caller's symbol so
	// updates carry the same key the ledger uses.
	names map[string]string
	log   zerolog.Logger
}

type streamEnvelope struct {
	Stream string      `json:"stream"`
	Data   streamTrade `json:"data"`
}

type streamTrade struct {
	Price     string `json:"p"`
	TradeTime int64  `json:"T"`
}

const defaultStreamBaseURL = "wss://stream.binance.com:9443"

// NewPriceStream builds a stream for the given symbols. An empty base URL
// targets the public Binance combined-stream endpoint.
func NewPriceStream(baseURL string, symbols []string, log zerolog.Logger) *PriceStream {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultStreamBaseURL
	}
	names := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		names[wireSymbol(sym)] = sym
	}
	return &PriceStream{
		baseURL: strings.TrimRight(baseURL, "/"),
		symbols: symbols,
		names:   names,
		log:     log,
	}
}

func wireSymbol(symbol string) string {
	return strings.ToLower(strings.ReplaceAll(symbol, "-", ""))
}

// Run pushes price updates onto out until the context is canceled,
// reconnecting with exponential backoff on transport errors.
func (s *PriceStream) Run(ctx context.Context, out chan<- PriceUpdate) error {
	if len(s.symbols) == 0 {
		return fmt.Errorf("price stream requires at least one symbol")
	}

	streams := make([]string, len(s.symbols))
	for i, sym := range s.symbols {
		streams[i] = wireSymbol(sym) + "@trade"
	}
	url := fmt.Sprintf("%s/stream?streams=%s", s.baseURL, strings.Join(streams, "/"))

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.consume(ctx, url, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("price stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (s *PriceStream) consume(ctx context.Context, url string, out chan<- PriceUpdate) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.log.Info().Strs("symbols", s.symbols).Msg("connected price stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					s.log.Warn().Err(err).Msg("price stream ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env streamEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			s.log.Warn().Err(err).Msg("failed to decode stream message")
			continue
		}
		px, err := strconv.ParseFloat(env.Data.Price, 64)
		if err != nil {
			s.log.Warn().Err(err).Msg("invalid price on stream")
			continue
		}
		symbol := s.streamSymbol(env.Stream)

		update := PriceUpdate{Symbol: symbol, Price: px, Ts: time.UnixMilli(env.Data.TradeTime)}
		select {
		case out <- update:
			metrics.PriceUpdatesTotal.WithLabelValues(symbol).Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *PriceStream) streamSymbol(stream string) string {
	name := stream
	if i := strings.Index(stream, "@"); i >= 0 {
		name = stream[:i]
	}
	if sym, ok := s.names[name]; ok {
		return sym
	}
	return strings.ToUpper(name)
}
