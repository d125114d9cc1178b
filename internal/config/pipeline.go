package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineWorkers           = "DESIST_PIPELINE_WORKERS"
	EnvPipelineEscalationTimeout = "DESIST_PIPELINE_ESCALATION_TIMEOUT"
	EnvPipelineOCRBaseURL        = "DESIST_PIPELINE_OCR_BASE_URL"
	EnvPipelineEscalation        = "DESIST_PIPELINE_ESCALATION"
)

// PipelineConfig holds document processing parameters.
type PipelineConfig struct {
	// Workers bounds concurrent document processing within a batch.
	Workers int `toml:"workers"`
	// EscalationTimeout bounds each model classification call.
	EscalationTimeout string `toml:"escalation_timeout"`
	// OCRBaseURL points at the OCR service. Empty disables OCR; scanned
	// documents then fail extraction.
	OCRBaseURL string `toml:"ocr_base_url"`
	// Escalation toggles model classification. When false every document
	// is classified by the pattern fallback.
	Escalation bool `toml:"escalation"`
}

// EscalationTimeoutDuration returns EscalationTimeout as a time.Duration.
func (c *PipelineConfig) EscalationTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.EscalationTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Escalation merges only
// when explicitly enabled in the overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.EscalationTimeout != "" {
		c.EscalationTimeout = overlay.EscalationTimeout
	}
	if overlay.OCRBaseURL != "" {
		c.OCRBaseURL = overlay.OCRBaseURL
	}
	if overlay.Escalation {
		c.Escalation = true
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.EscalationTimeout == "" {
		c.EscalationTimeout = "30s"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineWorkers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.Workers = workers
		}
	}
	if v := os.Getenv(EnvPipelineEscalationTimeout); v != "" {
		c.EscalationTimeout = v
	}
	if v := os.Getenv(EnvPipelineOCRBaseURL); v != "" {
		c.OCRBaseURL = v
	}
	if v := os.Getenv(EnvPipelineEscalation); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Escalation = enabled
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if _, err := time.ParseDuration(c.EscalationTimeout); err != nil {
		return fmt.Errorf("invalid escalation_timeout: %w", err)
	}
	return nil
}
