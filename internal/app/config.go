package app

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/report"
	"github.com/specialistvlad/burstmatrix/internal/trigger"
)

// DefaultWorkers is the number of jobs run at the same time by default.
const DefaultWorkers = 4

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Path     string // workflow file or directory (.hcl, .yml, .yaml)
	Workflow string // selects one workflow by name; empty selects all

	Workers  int
	FailFast bool
	DryRun   bool
	WorkDir  string

	// Event, Ref and BaseRef filter workflows by their triggers. No
	// filtering happens when Event is empty.
	Event   string
	Ref     string
	BaseRef string

	ReportPath      string
	ReportFormat    string
	ReportUploadURL string

	NotifyURL       string
	NotifyNamespace string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("a workflow path is required")
	}

	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 0 {
		return nil, errors.Newf("invalid workers: %d, must be positive", cfg.Workers)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if cfg.Event != "" {
		if err := cfg.TriggerEvent().Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid event")
		}
	} else if cfg.Ref != "" || cfg.BaseRef != "" {
		return nil, errors.New("--ref and --base-ref require --event")
	}

	if cfg.ReportFormat != "" || cfg.ReportPath != "" || cfg.ReportUploadURL != "" {
		if _, err := report.FormatFor(cfg.ReportPath, cfg.ReportFormat); err != nil {
			return nil, err
		}
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.Newf("invalid healthcheck-port: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// TriggerEvent returns the event workflows are filtered against.
func (c *Config) TriggerEvent() trigger.Event {
	return trigger.Event{Name: c.Event, Ref: c.Ref, BaseRef: c.BaseRef}
}
