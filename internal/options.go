package internal

import (
	"errors"
	"strings"
)

// DefaultPatterns match Teardown input-query calls with a quoted key name
// as the single capture group.
var DefaultPatterns = []string{
	`InputPressed\(\s*["']([^"']+)["']\s*\)`,
	`InputDown\(\s*["']([^"']+)["']\s*\)`,
	`InputReleased\(\s*["']([^"']+)["']\s*\)`,
	`InputValue\(\s*["']([^"']+)["']\s*\)`,
}

const (
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MiB
	DefaultConcurrency = 4
	DefaultEncoding    = "utf-8"
)

// ScanConfig - public options from CLI/viewer. Treated as immutable once
// validated.
type ScanConfig struct {
	Patterns        []string
	CaseInsensitive bool
	WholeWord       bool
	MaxFileSize     int64
	Concurrency     int
	Encoding        string
	DryRun          bool
	Archives        bool
}

// DefaultConfig returns a config with the tool defaults applied.
func DefaultConfig() ScanConfig {
	return ScanConfig{
		Patterns:    DefaultPatterns,
		MaxFileSize: DefaultMaxFileSize,
		Concurrency: DefaultConcurrency,
		Encoding:    DefaultEncoding,
	}
}

// Validate checks invariants.
func (c *ScanConfig) Validate() error {
	if len(c.Patterns) == 0 {
		return errors.New("at least one pattern is required")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("max-file-size must be positive")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if strings.TrimSpace(c.Encoding) == "" {
		return errors.New("encoding must not be empty")
	}
	return nil
}

// scanNames is the allow-list of file names eligible for scanning,
// matched case-insensitively. readme is a prefix match.
var scanNames = map[string]struct{}{
	"main.lua":    {},
	"options.lua": {},
	"info.txt":    {},
}

// ShouldScanFile reports whether a file name is on the scanned-file allow-list.
func ShouldScanFile(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := scanNames[lower]; ok {
		return true
	}
	return strings.HasPrefix(lower, "readme")
}
