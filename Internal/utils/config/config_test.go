package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Screener.ReferenceSymbol != "BTCUSDT" {
		t.Errorf("reference_symbol default = %s, want BTCUSDT", cfg.Screener.ReferenceSymbol)
	}
	if cfg.Screener.Timeframe != "4h" {
		t.Errorf("timeframe default = %s, want 4h", cfg.Screener.Timeframe)
	}
	if cfg.Screener.WindowLength != 100 {
		t.Errorf("window_length default = %d, want 100", cfg.Screener.WindowLength)
	}
	if cfg.Screener.SelectionPolicy != "signed" {
		t.Errorf("selection_policy default = %s, want signed", cfg.Screener.SelectionPolicy)
	}
	if cfg.Trading.UsageRatio != 0.9 {
		t.Errorf("usage_ratio default = %v, want 0.9", cfg.Trading.UsageRatio)
	}
	if cfg.Trading.Leverage != 5 {
		t.Errorf("leverage default = %d, want 5", cfg.Trading.Leverage)
	}
	if cfg.Trading.OrderStyle != "limit" {
		t.Errorf("order_style default = %s, want limit", cfg.Trading.OrderStyle)
	}
	if cfg.Venue.RESTBaseURL != "https://fapi.binance.com" {
		t.Errorf("rest_base_url default = %s, want https://fapi.binance.com", cfg.Venue.RESTBaseURL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	raw := `
screener:
  reference_symbol: ETHUSDT
  timeframe: 1h
  window_length: 50
trading:
  leverage: 10
  order_style: market
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("yaml parse failed: %v", err)
	}
	cfg.applyDefaults()

	if cfg.Screener.ReferenceSymbol != "ETHUSDT" {
		t.Errorf("reference_symbol = %s, want ETHUSDT", cfg.Screener.ReferenceSymbol)
	}
	if cfg.Screener.WindowLength != 50 {
		t.Errorf("window_length = %d, want 50", cfg.Screener.WindowLength)
	}
	if cfg.Trading.Leverage != 10 {
		t.Errorf("leverage = %d, want 10", cfg.Trading.Leverage)
	}
	if cfg.Trading.OrderStyle != "market" {
		t.Errorf("order_style = %s, want market", cfg.Trading.OrderStyle)
	}
	// Untouched fields still get defaults
	if cfg.Screener.QuoteAsset != "USDT" {
		t.Errorf("quote_asset = %s, want USDT", cfg.Screener.QuoteAsset)
	}
	if cfg.Trading.UsageRatio != 0.9 {
		t.Errorf("usage_ratio = %v, want 0.9", cfg.Trading.UsageRatio)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.applyDefaults()
		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(*Config) {}, false},
		{"absolute policy passes", func(c *Config) { c.Screener.SelectionPolicy = "absolute" }, false},
		{"unknown policy", func(c *Config) { c.Screener.SelectionPolicy = "ranked" }, true},
		{"unknown order style", func(c *Config) { c.Trading.OrderStyle = "iceberg" }, true},
		{"usage ratio above one", func(c *Config) { c.Trading.UsageRatio = 1.5 }, true},
		{"negative usage ratio", func(c *Config) { c.Trading.UsageRatio = -0.1 }, true},
		{"full usage ratio passes", func(c *Config) { c.Trading.UsageRatio = 1.0 }, false},
		{"zero leverage", func(c *Config) { c.Trading.Leverage = 0 }, true},
		{"threshold beyond bounds", func(c *Config) { c.Screener.CorrThreshold = 1.2 }, true},
		{"negative threshold passes", func(c *Config) { c.Screener.CorrThreshold = -0.5 }, false},
		{"window too short", func(c *Config) { c.Screener.WindowLength = 1 }, true},
		{"negative top n", func(c *Config) { c.Screener.TopN = -1 }, true},
		{"negative rate limit", func(c *Config) { c.Venue.RequestsPerSecond = -5 }, true},
		{"negative pacing", func(c *Config) { c.Venue.SubmitPacingMS = -200 }, true},
		{"zero pacing passes", func(c *Config) { c.Venue.SubmitPacingMS = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
