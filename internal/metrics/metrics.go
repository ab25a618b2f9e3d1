package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PriceUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "price_updates_total", Help: "Live price observations consumed by the paper engine"},
		[]string{"symbol"},
	)
	AssetsAnalyzedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "assets_analyzed_total", Help: "Per-asset technical analyses completed"},
		[]string{"category"},
	)
	AnalysisFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "analysis_failures_total", Help: "Per-asset analyses that degraded to a neutral entry"},
		[]string{"stage"},
	)
	OrdersProposedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_proposed_total", Help: "Order proposals produced from strong signals"},
		[]string{"symbol", "side"},
	)
	TradesOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "paper_trades_opened_total", Help: "Paper trades opened"},
		[]string{"symbol"},
	)
	TradesClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "paper_trades_closed_total", Help: "Paper trades closed at stop or target"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(
		PriceUpdatesTotal,
		AssetsAnalyzedTotal,
		AnalysisFailuresTotal,
		OrdersProposedTotal,
		TradesOpenedTotal,
		TradesClosedTotal,
	)
}

// Serve exposes /metrics on the given address in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
