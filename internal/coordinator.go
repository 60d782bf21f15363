package internal

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// fileTask is one unit of work. index is the position in discovery order,
// which fixes the final result ordering.
type fileTask struct {
	index   int
	path    string
	inner   string // archive-internal path, empty for regular files
	modName string
}

// ScanCoordinator drives a full run: mod resolution, file discovery,
// parallel scanning and aggregation.
type ScanCoordinator struct {
	cfg     ScanConfig
	scanner *FileScanner

	// OnProgress, when set, is called after each file completes. Calls are
	// serialized: the callback never runs concurrently with itself, so
	// consumers need no locking of their own.
	OnProgress func(done, total int)

	progressMu sync.Mutex
}

// NewScanCoordinator validates the config and compiles the pattern set.
// All configuration errors surface here, before any scanning.
func NewScanCoordinator(cfg ScanConfig) (*ScanCoordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	patterns, err := CompilePatterns(cfg.Patterns, cfg.CaseInsensitive, cfg.WholeWord)
	if err != nil {
		return nil, err
	}
	scanner, err := NewFileScanner(patterns, cfg)
	if err != nil {
		return nil, err
	}
	return &ScanCoordinator{cfg: cfg, scanner: scanner}, nil
}

// Run scans all roots and returns the aggregated report. Per-file failures
// are logged and skipped; a root that cannot be resolved is skipped too.
// The whole run fails only on pool setup or context cancellation.
func (c *ScanCoordinator) Run(ctx context.Context, roots []string) (*ScanReport, error) {
	mods, tasks := c.discover(ctx, roots)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if c.cfg.DryRun {
		logrus.Infof("Dry run: %d mods, %d files eligible", len(mods), len(tasks))
		return Aggregate(nil, mods, 0), nil
	}

	// One result slot per task: workers write disjoint indices, no lock
	// needed, and the merge below restores discovery order.
	results := make([][]Match, len(tasks))
	var (
		scanned atomic.Int64
		skipped atomic.Int64
		done    atomic.Int64
		wg      sync.WaitGroup
	)

	pool, err := ants.NewPoolWithFunc(c.cfg.Concurrency, func(i interface{}) {
		defer wg.Done()
		t := i.(fileTask)
		if ctx.Err() != nil {
			return
		}
		matches, err := c.scanTask(ctx, t)
		if err != nil {
			skipped.Add(1)
			logSkip(t, err)
		} else {
			scanned.Add(1)
			results[t.index] = matches
		}
		if c.OnProgress != nil {
			c.progressMu.Lock()
			c.OnProgress(int(done.Add(1)), len(tasks))
			c.progressMu.Unlock()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Invoke(t); err != nil {
			wg.Done()
			skipped.Add(1)
			logrus.WithError(err).WithField("file", t.path).Error("submit task")
		}
	}
	wg.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var all []Match
	for _, slot := range results {
		all = append(all, slot...)
	}
	logrus.Infof("Scan done: files=%d skipped=%d matches=%d", scanned.Load(), skipped.Load(), len(all))
	return Aggregate(all, mods, int(scanned.Load())), nil
}

// discover resolves mods under every root and enumerates eligible files in
// a single-threaded walk, assigning each task its discovery index.
func (c *ScanCoordinator) discover(ctx context.Context, roots []string) ([]ModEntry, []fileTask) {
	var mods []ModEntry
	var tasks []fileTask

	addTask := func(path, inner, mod string) {
		tasks = append(tasks, fileTask{index: len(tasks), path: path, inner: inner, modName: mod})
	}

	addArchiveMod := func(path string) {
		name := ArchiveModName(ctx, path)
		mods = append(mods, ModEntry{Root: path, Name: name})
		inner, err := ListArchiveFiles(ctx, path)
		if err != nil {
			logrus.WithError(err).WithField("archive", path).Warn("skip archive")
			return
		}
		for _, p := range inner {
			addTask(path, p, name)
		}
	}

	for _, root := range roots {
		if ctx.Err() != nil {
			return mods, tasks
		}
		if c.cfg.Archives && IsArchive(root) {
			addArchiveMod(root)
			continue
		}
		entries, err := ResolveMods(root)
		if err != nil {
			logrus.WithError(err).WithField("root", root).Warn("skip root")
			continue
		}
		mods = append(mods, entries...)
	}

	lookup := modLookup(mods)
	for _, entry := range mods {
		if IsArchive(entry.Root) {
			continue // archive tasks were added at resolution
		}
		err := filepath.WalkDir(entry.Root, func(path string, d iofs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				logrus.WithError(err).WithField("path", path).Warn("skip path")
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if c.cfg.Archives && IsArchive(path) {
				addArchiveMod(path)
				return nil
			}
			if !ShouldScanFile(d.Name()) {
				return nil
			}
			addTask(path, "", lookup(path))
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logrus.WithError(err).WithField("mod", entry.Root).Warn("walk aborted")
		}
	}
	return mods, tasks
}

func (c *ScanCoordinator) scanTask(ctx context.Context, t fileTask) ([]Match, error) {
	var matches []Match
	var err error
	if t.inner != "" {
		matches, err = c.scanner.ScanArchiveFile(ctx, t.path, t.inner)
	} else {
		matches, err = c.scanner.ScanFile(t.path)
	}
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].ModName = t.modName
	}
	return matches, nil
}

// modLookup returns a longest-prefix resolver from file path to mod name.
func modLookup(mods []ModEntry) func(path string) string {
	return func(path string) string {
		best := ""
		bestLen := -1
		for _, e := range mods {
			prefix := e.Root + string(os.PathSeparator)
			if (path == e.Root || strings.HasPrefix(path, prefix)) && len(e.Root) > bestLen {
				best = e.Name
				bestLen = len(e.Root)
			}
		}
		if bestLen < 0 {
			return "Unknown"
		}
		return best
	}
}

func logSkip(t fileTask, err error) {
	path := t.path
	if t.inner != "" {
		path = ArchivePath(t.path, t.inner)
	}
	entry := logrus.WithField("file", path)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		entry.Warn("skip: file too large")
	case errors.Is(err, ErrDecode):
		entry.WithError(err).Warn("skip: cannot decode")
	default:
		entry.WithError(err).Error("skip: read failed")
	}
}
