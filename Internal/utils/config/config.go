package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Screener struct {
		ReferenceSymbol string  `yaml:"reference_symbol"`
		QuoteAsset      string  `yaml:"quote_asset"`
		Timeframe       string  `yaml:"timeframe"`
		WindowLength    int     `yaml:"window_length"`
		TopN            int     `yaml:"top_n"`
		CorrThreshold   float64 `yaml:"corr_threshold"`
		SelectionPolicy string  `yaml:"selection_policy"` // "signed" or "absolute"
	} `yaml:"screener"`

	Trading struct {
		UsageRatio         float64 `yaml:"usage_ratio"`
		Leverage           int     `yaml:"leverage"`
		MinOrderValue      float64 `yaml:"min_order_value"` // fallback when exchangeInfo omits it
		LotStep            float64 `yaml:"lot_step"`        // fallback when exchangeInfo omits it
		OrderStyle         string  `yaml:"order_style"`     // "limit" (best ask) or "market"
		ModeFallbackOneWay bool    `yaml:"mode_fallback_one_way"`
	} `yaml:"trading"`

	Venue struct {
		RESTBaseURL       string  `yaml:"rest_base_url"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		SubmitPacingMS    int     `yaml:"submit_pacing_ms"`
	} `yaml:"venue"`
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// Try multiple paths to find config.yaml
	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Screener.ReferenceSymbol == "" {
		c.Screener.ReferenceSymbol = "BTCUSDT"
	}
	if c.Screener.QuoteAsset == "" {
		c.Screener.QuoteAsset = "USDT"
	}
	if c.Screener.Timeframe == "" {
		c.Screener.Timeframe = "4h"
	}
	if c.Screener.WindowLength == 0 {
		c.Screener.WindowLength = 100
	}
	if c.Screener.TopN == 0 {
		c.Screener.TopN = 10
	}
	if c.Screener.SelectionPolicy == "" {
		c.Screener.SelectionPolicy = "signed"
	}
	if c.Trading.UsageRatio == 0 {
		c.Trading.UsageRatio = 0.9
	}
	if c.Trading.Leverage == 0 {
		c.Trading.Leverage = 5
	}
	if c.Trading.MinOrderValue == 0 {
		c.Trading.MinOrderValue = 20
	}
	if c.Trading.LotStep == 0 {
		c.Trading.LotStep = 0.001
	}
	if c.Trading.OrderStyle == "" {
		c.Trading.OrderStyle = "limit"
	}
	if c.Venue.RESTBaseURL == "" {
		c.Venue.RESTBaseURL = "https://fapi.binance.com"
	}
	if c.Venue.RequestsPerSecond == 0 {
		c.Venue.RequestsPerSecond = 5
	}
	if c.Venue.SubmitPacingMS == 0 {
		c.Venue.SubmitPacingMS = 200
	}
}

func (c *Config) Validate() error {
	if c.Screener.SelectionPolicy != "signed" && c.Screener.SelectionPolicy != "absolute" {
		return fmt.Errorf("selection_policy must be \"signed\" or \"absolute\", got %q", c.Screener.SelectionPolicy)
	}
	if c.Trading.OrderStyle != "limit" && c.Trading.OrderStyle != "market" {
		return fmt.Errorf("order_style must be \"limit\" or \"market\", got %q", c.Trading.OrderStyle)
	}
	if c.Trading.UsageRatio <= 0 || c.Trading.UsageRatio > 1 {
		return fmt.Errorf("usage_ratio must be in (0, 1], got %v", c.Trading.UsageRatio)
	}
	if c.Trading.Leverage < 1 {
		return fmt.Errorf("leverage must be a positive integer, got %d", c.Trading.Leverage)
	}
	if c.Screener.CorrThreshold < -1 || c.Screener.CorrThreshold > 1 {
		return fmt.Errorf("corr_threshold must be in [-1, 1], got %v", c.Screener.CorrThreshold)
	}
	if c.Screener.WindowLength < 2 {
		return fmt.Errorf("window_length must be at least 2, got %d", c.Screener.WindowLength)
	}
	if c.Screener.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.Screener.TopN)
	}
	if c.Venue.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", c.Venue.RequestsPerSecond)
	}
	if c.Venue.SubmitPacingMS < 0 {
		return fmt.Errorf("submit_pacing_ms must not be negative, got %d", c.Venue.SubmitPacingMS)
	}
	return nil
}

func SaveConfig(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	err = os.WriteFile("Internal/utils/config/config.yaml", data, 0644)
	if err != nil {
		return err
	}
	return nil
}
