package internal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ModEntry maps a resolved mod root directory to its display name.
type ModEntry struct {
	Root string
	Name string
}

// modLayout is the container-vs-single decision for a root.
type modLayout struct {
	container bool
	subdirs   []string // qualifying mod subdirectories, walk order
}

// ResolveMods inspects root and returns one ModEntry per discovered mod.
// A root whose direct children include at least one directory carrying a
// mod-indicator file is a container of mods; otherwise the root itself is
// a single mod.
func ResolveMods(root string) ([]ModEntry, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("resolve %s: not a directory", root)
	}

	layout, err := detectLayout(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	if !layout.container {
		return []ModEntry{{Root: root, Name: ExtractModName(root)}}, nil
	}
	entries := make([]ModEntry, 0, len(layout.subdirs))
	for _, sub := range layout.subdirs {
		entries = append(entries, ModEntry{Root: sub, Name: ExtractModName(sub)})
	}
	return entries, nil
}

func detectLayout(root string) (modLayout, error) {
	children, err := os.ReadDir(root)
	if err != nil {
		return modLayout{}, err
	}
	var subdirs []string
	for _, ch := range children {
		if !ch.IsDir() {
			continue
		}
		sub := filepath.Join(root, ch.Name())
		if hasModIndicator(sub) {
			subdirs = append(subdirs, sub)
		}
	}
	if len(subdirs) == 0 {
		return modLayout{container: false}, nil
	}
	return modLayout{container: true, subdirs: subdirs}, nil
}

// hasModIndicator reports whether dir directly contains a recognized mod
// metadata or script file.
func hasModIndicator(dir string) bool {
	children, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, ch := range children {
		if ch.IsDir() {
			continue
		}
		name := strings.ToLower(ch.Name())
		switch name {
		case "info.txt", "main.lua", "options.lua":
			return true
		}
		if strings.HasPrefix(name, "readme") {
			return true
		}
	}
	return false
}

// ExtractModName resolves a display name for a mod directory:
// info.txt "name:" / "name =" line first, then the first readme header or
// non-blank line, then the directory base name. Read failures fall through
// to the next source.
func ExtractModName(dir string) string {
	if name := nameFromInfo(dir); name != "" {
		return name
	}
	if name := nameFromReadme(dir); name != "" {
		return name
	}
	return filepath.Base(dir)
}

func nameFromInfo(dir string) string {
	path, ok := findFile(dir, func(name string) bool { return name == "info.txt" })
	if !ok {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("file", path).Debug("cannot read info.txt")
		return ""
	}
	return nameFromInfoText(string(raw))
}

// nameFromInfoText finds the first "name:" or "name =" line (case-insensitive)
// and returns the trimmed value after the delimiter.
func nameFromInfoText(text string) string {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(strings.ToLower(line), "name")
		if !ok {
			continue
		}
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ":") && !strings.HasPrefix(rest, "=") {
			continue
		}
		if i := strings.IndexAny(line, ":="); i >= 0 {
			if v := strings.TrimSpace(line[i+1:]); v != "" {
				return v
			}
		}
	}
	return ""
}

func nameFromReadme(dir string) string {
	path, ok := findFile(dir, func(name string) bool { return strings.HasPrefix(name, "readme") })
	if !ok {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("file", path).Debug("cannot read readme")
		return ""
	}
	return nameFromReadmeText(string(raw))
}

// nameFromReadmeText returns the first markdown header with the leading #
// stripped, or absent any header the first non-blank line.
func nameFromReadmeText(text string) string {
	var firstNonBlank string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		if firstNonBlank == "" {
			firstNonBlank = line
		}
	}
	return firstNonBlank
}

// findFile looks for a direct child whose lowercased name satisfies match.
func findFile(dir string, match func(string) bool) (string, bool) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, ch := range children {
		if ch.IsDir() {
			continue
		}
		if match(strings.ToLower(ch.Name())) {
			return filepath.Join(dir, ch.Name()), true
		}
	}
	return "", false
}
