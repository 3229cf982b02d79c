package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.RegistryOutput, err = expandPath(strings.TrimSpace(c.Output.RegistryOutput)); err != nil {
		return fmt.Errorf("output.registry_output: %w", err)
	}
	if c.Output.ReviewOutput, err = expandPath(strings.TrimSpace(c.Output.ReviewOutput)); err != nil {
		return fmt.Errorf("output.review_output: %w", err)
	}
	if c.Output.ReviewWorkbook, err = expandPath(strings.TrimSpace(c.Output.ReviewWorkbook)); err != nil {
		return fmt.Errorf("output.review_workbook: %w", err)
	}

	prefixes := make([]string, 0, len(c.Output.RecognizedIDPrefixes))
	seen := make(map[string]struct{}, len(c.Output.RecognizedIDPrefixes))
	for _, p := range c.Output.RecognizedIDPrefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}
	c.Output.RecognizedIDPrefixes = prefixes
	return nil
}

func (c *Config) normalizeLedger() error {
	if value, ok := os.LookupEnv("PROJMERGE_LEDGER_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Ledger.Path = value
	}
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	var err error
	if c.Ledger.Path, err = expandPath(strings.TrimSpace(c.Ledger.Path)); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("PROJMERGE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
