package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if math.IsNaN(m.ConfidenceThreshold) || math.IsNaN(m.ReviewThreshold) {
		return errors.New("matching thresholds must be numbers")
	}
	if m.ReviewThreshold < 0 || m.ReviewThreshold > 100 {
		return fmt.Errorf("matching.review_threshold must be between 0 and 100, got %v", m.ReviewThreshold)
	}
	if m.ConfidenceThreshold < 0 || m.ConfidenceThreshold > 100 {
		return fmt.Errorf("matching.confidence_threshold must be between 0 and 100, got %v", m.ConfidenceThreshold)
	}
	if m.ReviewThreshold > m.ConfidenceThreshold {
		return fmt.Errorf("matching.review_threshold (%v) must not exceed matching.confidence_threshold (%v)", m.ReviewThreshold, m.ConfidenceThreshold)
	}
	if m.ReviewTopN <= 0 {
		return errors.New("matching.review_top_n must be positive")
	}
	return nil
}

func (c *Config) validateIndex() error {
	if c.Index.SpatialHalfWidth <= 0 || c.Index.SpatialHalfWidth > maxSpatialHalfWidth {
		return fmt.Errorf("index.spatial_half_width must be in (0, %v], got %v", maxSpatialHalfWidth, c.Index.SpatialHalfWidth)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ChunkSize <= 0 {
		return errors.New("pipeline.chunk_size must be positive")
	}
	if c.Pipeline.Workers < 0 {
		return errors.New("pipeline.workers must be zero (one per CPU) or positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.RegistryOutput == "" {
		return errors.New("output.registry_output must be set")
	}
	if c.Output.ReviewOutput == "" {
		return errors.New("output.review_output must be set")
	}
	if c.Output.RegistryOutput == c.Output.ReviewOutput {
		return errors.New("output.registry_output and output.review_output must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
