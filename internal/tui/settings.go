package tui

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the persisted viewer state: last-used inputs and geometry.
// The scan core never reads or writes this file.
type Settings struct {
	Directories []string `toml:"directories"`
	ReportPath  string   `toml:"report_path"`
	OutputDir   string   `toml:"output_dir"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{OutputDir: "output"}
}

// SettingsPath returns the viewer settings file location under the user
// config dir.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "keybindscanner", "viewer.toml"), nil
}

// LoadSettings reads the settings file. A missing file yields defaults,
// not an error.
func LoadSettings(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), err
	}
	s := DefaultSettings()
	if err := toml.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), err
	}
	return s, nil
}

// SaveSettings writes the settings file, creating parent directories.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	raw, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
