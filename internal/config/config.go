// Package config exposes strongly typed application configuration loaded
// from YAML, with defaults applied and validated before use.
package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings.
type App struct {
	Name        string `yaml:"name" default:"ai-trading-agents"`
	Env         string `yaml:"env" default:"dev"`
	MetricsAddr string `yaml:"metrics_addr" default:":9100"`
	LogLevel    string `yaml:"log_level" default:"info"`
}

// Account describes the virtual account used for sizing and paper trading.
type Account struct {
	Size            float64 `yaml:"size" default:"10000" validate:"gt=0"`
	RiskPerTradePct float64 `yaml:"risk_per_trade_pct" default:"1.0" validate:"gt=0,lte=100"`
}

// Ensemble groups the weights and thresholds for combining scores and
// ranking the universe.
type Ensemble struct {
	TechWeight   float64 `yaml:"tech_weight" default:"0.7" validate:"gte=0"`
	NewsWeight   float64 `yaml:"news_weight" default:"0.3" validate:"gte=0"`
	StrongSignal float64 `yaml:"strong_signal" default:"4.0" validate:"gt=0"`
	TopN         int     `yaml:"top_n" default:"15" validate:"gt=0"`
	Workers      int     `yaml:"workers" default:"4" validate:"gt=0"`
	HistoryDays  int     `yaml:"history_days" default:"365" validate:"gte=200"`
	UniverseFile string  `yaml:"universe_file"`
}

// ATRMultipliers sets the stop distance factor per macro-category.
type ATRMultipliers struct {
	Crypto  float64 `yaml:"crypto" default:"2.5" validate:"gt=0"`
	Stock   float64 `yaml:"stock" default:"1.8" validate:"gt=0"`
	Default float64 `yaml:"default" default:"1.5" validate:"gt=0"`
}

// Orders tunes stop, target, and sizing for order proposals.
type Orders struct {
	RewardRisk     float64        `yaml:"reward_risk" default:"2.0" validate:"gt=0"`
	ATRMultipliers ATRMultipliers `yaml:"atr_multipliers"`
}

// Logs locates every persisted record file.
type Logs struct {
	Dir         string `yaml:"dir" default:"logs"`
	RankingFile string `yaml:"ranking_file" default:"ranking_log.csv"`
	OrderFile   string `yaml:"order_file" default:"orders_log.csv"`
	TradesFile  string `yaml:"trades_file" default:"paper_trades.csv"`
}

// Backtest configures forward-return evaluation.
type Backtest struct {
	Horizons   []int `yaml:"horizons" default:"[1,3,5]" validate:"min=1,dive,gt=0"`
	BufferDays int   `yaml:"buffer_days" default:"10" validate:"gte=0"`
}

// Providers points at the external market-data, news, and narrative services.
type Providers struct {
	ChartBaseURL  string `yaml:"chart_base_url"`
	StreamBaseURL string `yaml:"stream_base_url"`
	NewsBaseURL   string `yaml:"news_base_url"`
	NewsAPIKey    string `yaml:"news_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model" default:"gpt-4o-mini"`
}

// Config collects every configuration leaf.
type Config struct {
	App       App       `yaml:"app"`
	Account   Account   `yaml:"account"`
	Ensemble  Ensemble  `yaml:"ensemble"`
	Orders    Orders    `yaml:"orders"`
	Logs      Logs      `yaml:"logs"`
	Backtest  Backtest  `yaml:"backtest"`
	Providers Providers `yaml:"providers"`
}

// Load reads a YAML file over the defaults, applies API-key environment
// overrides, and validates the result. Defaults are set before the decode so
// an explicit zero in the file survives as a zero.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return finish(&cfg)
}

// Default returns a fully defaulted configuration without reading a file.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if cfg.Providers.NewsAPIKey == "" {
		cfg.Providers.NewsAPIKey = os.Getenv("NEWSDATA_API_KEY")
	}
	if cfg.Providers.OpenAIAPIKey == "" {
		cfg.Providers.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if cfg.Ensemble.TechWeight+cfg.Ensemble.NewsWeight <= 0 {
		return nil, fmt.Errorf("validate config: ensemble weights must sum to a positive total")
	}
	return cfg, nil
}

// ATRMultiplier resolves the stop-distance factor for a macro-category.
func (o Orders) ATRMultiplier(macro string) float64 {
	switch macro {
	case "CRYPTO":
		return o.ATRMultipliers.Crypto
	case "STOCK":
		return o.ATRMultipliers.Stock
	default:
		return o.ATRMultipliers.Default
	}
}

// RiskAmount is the account capital put at risk on a single trade.
func (a Account) RiskAmount() float64 {
	return a.Size * (a.RiskPerTradePct / 100.0)
}
