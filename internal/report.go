package internal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	JSONReportName = "keybinds.json"
	CSVReportName  = "keybinds.csv"
)

// csvHeader matches the Match field order.
var csvHeader = []string{"file_path", "line_number", "key_name", "context", "matched_text", "mod_name"}

// ReportWriter serializes a finished ScanReport. It only reads the report.
type ReportWriter struct {
	OutputDir string
}

// Write saves the report in each requested format ("json", "csv") under
// OutputDir, creating the directory if needed. Any write failure is fatal
// to the caller, distinct from scan errors.
func (w *ReportWriter) Write(report *ScanReport, formats []string) error {
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, format := range formats {
		switch format {
		case "json":
			if err := w.writeJSON(report); err != nil {
				return err
			}
		case "csv":
			if err := w.writeCSV(report); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	}
	return nil
}

func (w *ReportWriter) writeJSON(report *ScanReport) error {
	path := filepath.Join(w.OutputDir, JSONReportName)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logrus.WithField("file", path).Info("Saved JSON report")
	return nil
}

func (w *ReportWriter) writeCSV(report *ScanReport) error {
	path := filepath.Join(w.OutputDir, CSVReportName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for _, m := range report.Results {
		row := []string{m.FilePath, strconv.Itoa(m.LineNumber), m.KeyName, m.Context, m.MatchedText, m.ModName}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logrus.WithField("file", path).Info("Saved CSV report")
	return nil
}

// LoadReport reads a previously saved JSON report. Used by the viewer.
func LoadReport(path string) (*ScanReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report ScanReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}
