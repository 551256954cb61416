// Package prokerala provides a client for the Prokerala astrology API.
package prokerala

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultTokenURL      = "https://api.prokerala.com/token"
	defaultBaseURL       = "https://api.prokerala.com/v2/astrology"
	defaultRatePerMinute = 60
	// 1回の生成で並列に呼ぶ本数(4)とトークン取得に余裕を持たせた値
	defaultMaxIdleConns = 8
)

// Config holds configuration for the Prokerala API client.
type Config struct {
	ClientID      string        // OAuth2 client id
	ClientSecret  string        // OAuth2 client secret
	TokenURL      string        // client-credentials token endpoint
	BaseURL       string        // Base URL for the astrology endpoints
	Timeout       time.Duration // HTTP request timeout
	RatePerMinute int           // outbound request budget, 0 disables limiting
	MaxIdleConns  int           // idle connections kept per vendor host
}

// LoadConfig loads Prokerala configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		ClientID:      os.Getenv("PROKERALA_CLIENT_ID"),
		ClientSecret:  os.Getenv("PROKERALA_CLIENT_SECRET"),
		TokenURL:      os.Getenv("PROKERALA_TOKEN_URL"),
		BaseURL:       os.Getenv("PROKERALA_API_URL"),
		Timeout:       15 * time.Second,
		RatePerMinute: defaultRatePerMinute,
		MaxIdleConns:  defaultMaxIdleConns,
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("PROKERALA_RATE_PER_MINUTE")); err == nil {
		cfg.RatePerMinute = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROKERALA_MAX_IDLE_CONNS")); err == nil && v > 0 {
		cfg.MaxIdleConns = v
	}
	return cfg
}
