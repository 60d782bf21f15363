package internal

import (
	"fmt"
	"os"
	"strings"
)

// Match is one keybind detection. Immutable once created.
type Match struct {
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	KeyName     string `json:"key_name"`
	Context     string `json:"context"`
	MatchedText string `json:"matched_text"`
	ModName     string `json:"mod_name"`
}

// FileScanner scans single files against a compiled pattern set. It has no
// mod context; ModName is filled in by the coordinator.
type FileScanner struct {
	patterns *PatternSet
	decoder  *textDecoder
	maxSize  int64
}

// NewFileScanner builds a scanner for the given config and compiled patterns.
// Fails if the configured encoding is not recognized.
func NewFileScanner(patterns *PatternSet, cfg ScanConfig) (*FileScanner, error) {
	dec, err := resolveEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &FileScanner{patterns: patterns, decoder: dec, maxSize: cfg.MaxFileSize}, nil
}

// ScanFile scans one file and returns its matches in line order.
// The size guard runs before any content is read; oversized files fail with
// ErrFileTooLarge, undecodable ones with ErrDecode.
func (s *FileScanner) ScanFile(path string) ([]Match, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.Size() > s.maxSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", path, st.Size(), ErrFileTooLarge)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.scanBytes(path, raw)
}

func (s *FileScanner) scanBytes(path string, raw []byte) ([]Match, error) {
	text, err := s.decoder.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var matches []Match
	for _, lm := range s.patterns.MatchLines(text) {
		matches = append(matches, Match{
			FilePath:    path,
			LineNumber:  lm.LineNumber,
			KeyName:     lm.KeyName,
			Context:     strings.TrimSpace(lm.Line),
			MatchedText: lm.MatchedText,
		})
	}
	return matches, nil
}
