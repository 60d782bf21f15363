package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleMod lays out one mod directory with a keybind on main.lua line 5
// and another on line 9.
func sampleMod(t *testing.T, dir string) {
	t.Helper()
	lua := strings.Join([]string{
		"-- sample mod",
		"function init()",
		"end",
		"function tick()",
		`	if InputPressed("Key_X") then`,
		"		fire()",
		"	end",
		"",
		`	if InputDown("Key_C") then`,
		"		charge()",
		"	end",
		"end",
	}, "\n") + "\n"
	writeFile(t, filepath.Join(dir, "main.lua"), lua)
	writeFile(t, filepath.Join(dir, "info.txt"), "name: Sample Mod\nversion: 1.0\n")
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	sampleMod(t, dir)

	coord, err := NewScanCoordinator(DefaultConfig())
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalFilesScanned, "main.lua and info.txt are both opened")
	assert.Equal(t, 2, report.TotalMatches)
	assert.Equal(t, map[string]string{dir: "Sample Mod"}, report.ModInfo)

	require.Len(t, report.Aggregated["Key_X"], 1)
	keyX := report.Aggregated["Key_X"][0]
	assert.Equal(t, 5, keyX.LineNumber)
	assert.Equal(t, "Sample Mod", keyX.ModName)
	assert.Equal(t, filepath.Join(dir, "main.lua"), keyX.FilePath)

	require.Len(t, report.Aggregated["Key_C"], 1)
	assert.Equal(t, 9, report.Aggregated["Key_C"][0].LineNumber)
}

func TestRun_AllowListExclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.lua"), `InputPressed("Key_A")`+"\n")
	writeFile(t, filepath.Join(dir, "script.lua"), `InputPressed("Key_B")`+"\n")

	coord, err := NewScanCoordinator(DefaultConfig())
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalMatches, "script.lua is outside the allow-list")
	assert.Contains(t, report.Aggregated, "Key_A")
	assert.NotContains(t, report.Aggregated, "Key_B")
}

func TestRun_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, mod := range []string{"alpha", "beta", "gamma", "delta"} {
		writeFile(t, filepath.Join(root, mod, "info.txt"), "name: "+mod+"\n")
		writeFile(t, filepath.Join(root, mod, "main.lua"),
			`InputPressed("Key_1")`+"\n"+`InputDown("Key_2")`+"\n"+`InputReleased("Key_3")`+"\n")
		writeFile(t, filepath.Join(root, mod, "options.lua"), `InputValue("Key_4")`+"\n")
	}

	cfg := DefaultConfig()
	cfg.Concurrency = 8

	var prev *ScanReport
	for i := 0; i < 3; i++ {
		coord, err := NewScanCoordinator(cfg)
		require.NoError(t, err)
		report, err := coord.Run(context.Background(), []string{root})
		require.NoError(t, err)
		require.Equal(t, 16, report.TotalMatches)
		if prev != nil {
			assert.Equal(t, prev.Results, report.Results, "results order must be reproducible")
		}
		prev = report
	}
}

func TestRun_ConflictAcrossMods(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one", "info.txt"), "name: Mod One\n")
	writeFile(t, filepath.Join(root, "one", "main.lua"), `InputPressed("Key_X")`+"\n")
	writeFile(t, filepath.Join(root, "two", "info.txt"), "name: Mod Two\n")
	writeFile(t, filepath.Join(root, "two", "main.lua"), `InputPressed("Key_X")`+"\n")

	coord, err := NewScanCoordinator(DefaultConfig())
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{root})
	require.NoError(t, err)

	require.Len(t, report.ModInfo, 2)
	bucket := report.Aggregated["Key_X"]
	require.Len(t, bucket, 2)
	mods := map[string]bool{}
	for _, m := range bucket {
		mods[m.ModName] = true
	}
	assert.True(t, mods["Mod One"] && mods["Mod Two"])
	assert.Equal(t, []string{"Key_X"}, report.Conflicts())
}

func TestRun_SizeLimitSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.lua"), `InputPressed("Key_X")`+"\n")
	writeFile(t, filepath.Join(dir, "options.lua"), strings.Repeat("-- padding\n", 100))

	cfg := DefaultConfig()
	cfg.MaxFileSize = 64
	coord, err := NewScanCoordinator(cfg)
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err, "an oversized file must not abort the run")

	assert.Equal(t, 1, report.TotalFilesScanned, "oversized file is excluded from the count")
	assert.Equal(t, 1, report.TotalMatches)
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	sampleMod(t, dir)

	cfg := DefaultConfig()
	cfg.DryRun = true
	coord, err := NewScanCoordinator(cfg)
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Zero(t, report.TotalFilesScanned)
	assert.Zero(t, report.TotalMatches)
	assert.Empty(t, report.Results)
	assert.Equal(t, map[string]string{dir: "Sample Mod"}, report.ModInfo, "dry run still resolves mods")
}

func TestRun_UnreadableRootSkipped(t *testing.T) {
	good := t.TempDir()
	sampleMod(t, good)
	missing := filepath.Join(t.TempDir(), "gone")

	coord, err := NewScanCoordinator(DefaultConfig())
	require.NoError(t, err)
	report, err := coord.Run(context.Background(), []string{missing, good})
	require.NoError(t, err, "one bad root must not abort the others")
	assert.Equal(t, 2, report.TotalMatches)
	require.Len(t, report.ModInfo, 1)
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	sampleMod(t, dir)

	coord, err := NewScanCoordinator(DefaultConfig())
	require.NoError(t, err)
	first, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	second, err := coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewScanCoordinator_ConfigErrors(t *testing.T) {
	bad := DefaultConfig()
	bad.Concurrency = 0
	_, err := NewScanCoordinator(bad)
	require.Error(t, err)

	bad = DefaultConfig()
	bad.MaxFileSize = 0
	_, err = NewScanCoordinator(bad)
	require.Error(t, err)

	bad = DefaultConfig()
	bad.Patterns = []string{`(two)(groups)`}
	_, err = NewScanCoordinator(bad)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestRun_OnProgress(t *testing.T) {
	dir := t.TempDir()
	sampleMod(t, dir)

	cfg := DefaultConfig()
	cfg.Concurrency = 1
	coord, err := NewScanCoordinator(cfg)
	require.NoError(t, err)

	var calls int
	var lastTotal int
	coord.OnProgress = func(done, total int) {
		calls++
		lastTotal = total
	}
	_, err = coord.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, lastTotal)
}

func TestRun_OnProgressSerialized(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 8; i++ {
		mod := fmt.Sprintf("mod%d", i)
		writeFile(t, filepath.Join(root, mod, "info.txt"), "name: "+mod+"\n")
		writeFile(t, filepath.Join(root, mod, "main.lua"), `InputPressed("Key_X")`+"\n")
	}

	cfg := DefaultConfig()
	cfg.Concurrency = 8
	coord, err := NewScanCoordinator(cfg)
	require.NoError(t, err)

	// lazily initialized state with no locking of its own, like a progress
	// bar created on first call: valid only because calls are serialized
	var seen []int
	coord.OnProgress = func(done, total int) {
		if seen == nil {
			seen = make([]int, 0, total)
		}
		seen = append(seen, done)
	}
	_, err = coord.Run(context.Background(), []string{root})
	require.NoError(t, err)

	want := make([]int, 16)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, seen, "done counts arrive in order, one per file")
}

func TestModLookup(t *testing.T) {
	mods := []ModEntry{
		{Root: filepath.Join("m", "outer"), Name: "Outer"},
		{Root: filepath.Join("m", "outer", "nested"), Name: "Nested"},
	}
	lookup := modLookup(mods)
	assert.Equal(t, "Outer", lookup(filepath.Join("m", "outer", "main.lua")))
	assert.Equal(t, "Nested", lookup(filepath.Join("m", "outer", "nested", "main.lua")))
	assert.Equal(t, "Unknown", lookup(filepath.Join("elsewhere", "main.lua")))
}
