package es

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultMaxRetries = 3

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// MaxRetries applies to bulk requests rejected with 429 or a 5xx gateway error.
	MaxRetries int
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	cfg := elasticsearch.Config{
		Addresses:  config.Addresses,
		MaxRetries: maxRetries,
		RetryOnStatus: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
