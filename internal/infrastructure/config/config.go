package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Database holds the hosted store connection settings.
type Database struct {
	URL       string `envconfig:"REPLYWATCH_DATABASE_URL" required:"true"`
	AuthToken string `envconfig:"REPLYWATCH_AUTH_TOKEN" required:"true"`
}

// Pipeline tunes the detailed-statistics pipeline.
type Pipeline struct {
	// Timeout is the whole-pipeline deadline for one report.
	Timeout time.Duration `envconfig:"PIPELINE_TIMEOUT" default:"60s"`
	// DialogBatchPause is the wait between concurrent dialog read groups.
	DialogBatchPause time.Duration `envconfig:"DIALOG_BATCH_PAUSE" default:"150ms"`
	// ServiceAgentID identifies the system account whose replies are
	// excluded from every report.
	ServiceAgentID string `envconfig:"SERVICE_AGENT_ID"`
}

// Server holds configuration for the API server.
type Server struct {
	Database Database
	Pipeline Pipeline
	Port     int `envconfig:"PORT" default:"8080"`
}

// LoadServer loads server configuration from environment variables.
// Process recurses into the nested Database and Pipeline structs.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
