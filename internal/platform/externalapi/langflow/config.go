// Package langflow provides a client for the Langflow run API.
package langflow

import (
	"os"
	"time"
)

const defaultURL = "https://api.langflow.astra.datastax.com"

// Config holds configuration for the Langflow API client.
type Config struct {
	URL        string        // Base URL of the Langflow deployment
	LangflowID string        // Langflow workspace id
	FlowID     string        // Flow to run
	Token      string        // Application token sent as a bearer token
	Timeout    time.Duration // HTTP request timeout
}

// LoadConfig loads Langflow configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		URL:        os.Getenv("LANGFLOW_URL"),
		LangflowID: os.Getenv("LANGFLOW_ID"),
		FlowID:     os.Getenv("LANGFLOW_FLOW_ID"),
		Token:      os.Getenv("LANGFLOW_TOKEN"),
		Timeout:    60 * time.Second,
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	return cfg
}

// Validate reports whether the flow can be addressed.
func (c Config) Validate() error {
	switch {
	case c.LangflowID == "":
		return errMissing("LANGFLOW_ID")
	case c.FlowID == "":
		return errMissing("LANGFLOW_FLOW_ID")
	case c.Token == "":
		return errMissing("LANGFLOW_TOKEN")
	}
	return nil
}
