package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"KeybindScanner/internal"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "keybindscanner",
		Usage:     "Scan Teardown mod directories for keybind usage and conflicts",
		ArgsUsage: "DIRECTORY [DIRECTORY...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for reports",
				Value:   "output",
			},
			&cli.StringSliceFlag{
				Name:    "formats",
				Aliases: []string{"f"},
				Usage:   "Report formats: json, csv (repeatable)",
				Value:   cli.NewStringSlice("json"),
			},
			&cli.StringSliceFlag{
				Name:    "patterns",
				Aliases: []string{"p"},
				Usage:   "Custom regex patterns with one capture group for the key name (replaces defaults)",
			},
			&cli.BoolFlag{
				Name:    "case-insensitive",
				Aliases: []string{"i"},
				Usage:   "Case insensitive matching",
			},
			&cli.BoolFlag{
				Name:    "whole-word",
				Aliases: []string{"w"},
				Usage:   "Whole word matching",
			},
			&cli.Int64Flag{
				Name:    "max-file-size",
				Aliases: []string{"s"},
				Usage:   "Maximum file size in bytes",
				Value:   internal.DefaultMaxFileSize,
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "Number of parallel file workers",
				Value:   internal.DefaultConcurrency,
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "Text encoding of scanned files",
				Value:   internal.DefaultEncoding,
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Discover mods and files without scanning",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose logging",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Aliases: []string{"l"},
				Usage:   "Write logs into file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "archives",
				Aliases: []string{"a"},
				Usage:   "Also scan zip-packaged mods",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("log-file"), c.Bool("verbose"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roots := c.Args().Slice()
	if len(roots) == 0 {
		return cli.Exit("No directories given", 1)
	}
	var validRoots []string
	for _, r := range roots {
		st, err := os.Stat(r)
		switch {
		case err != nil:
			logrus.Warnf("Skip: inaccessible: %s", r)
		case st.IsDir(), c.Bool("archives") && internal.IsArchive(r):
			validRoots = append(validRoots, r)
		default:
			logrus.Warnf("Skip: not a mod directory: %s", r)
		}
	}
	if len(validRoots) == 0 {
		return cli.Exit("No valid directories to scan", 1)
	}

	cfg := internal.DefaultConfig()
	if p := c.StringSlice("patterns"); len(p) > 0 {
		cfg.Patterns = p
	}
	cfg.CaseInsensitive = c.Bool("case-insensitive")
	cfg.WholeWord = c.Bool("whole-word")
	cfg.MaxFileSize = c.Int64("max-file-size")
	cfg.Concurrency = c.Int("concurrency")
	cfg.Encoding = c.String("encoding")
	cfg.DryRun = c.Bool("dry-run")
	cfg.Archives = c.Bool("archives")

	for _, f := range c.StringSlice("formats") {
		if f != "json" && f != "csv" {
			return cli.Exit(fmt.Sprintf("Unknown format %q (want json or csv)", f), 1)
		}
	}

	coord, err := internal.NewScanCoordinator(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// progress bar only when logs are quiet enough not to fight over stdout
	if !cfg.DryRun && !c.Bool("verbose") && c.String("log-file") == "" {
		// the coordinator serializes OnProgress calls, so the lazy bar
		// init needs no lock
		var bar *progressbar.ProgressBar
		coord.OnProgress = func(done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "scanning")
			}
			_ = bar.Set(done)
		}
	}

	report, err := coord.Run(ctx, validRoots)
	if err != nil {
		if ctx.Err() != nil {
			return cli.Exit("Scan cancelled", 1)
		}
		return cli.Exit(err.Error(), 1)
	}

	if !cfg.DryRun {
		writer := &internal.ReportWriter{OutputDir: c.String("output")}
		if err := writer.Write(report, c.StringSlice("formats")); err != nil {
			return cli.Exit(fmt.Sprintf("Failed to write report: %v", err), 1)
		}
	}

	printSummary(report)
	return nil
}

func printSummary(report *internal.ScanReport) {
	fmt.Printf(
		"\nScanned %d files\nFound %d keybind matches\nUnique keybinds: %d\n",
		report.TotalFilesScanned, report.TotalMatches, len(report.Aggregated),
	)

	conflicts := report.Conflicts()
	if len(conflicts) == 0 {
		return
	}
	fmt.Printf("\nConflicting keybinds (%d):\n", len(conflicts))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Mods"})
	table.SetAutoWrapText(false)
	for _, key := range conflicts {
		for i, mod := range report.ConflictMods(key) {
			if i == 0 {
				table.Append([]string{key, mod})
			} else {
				table.Append([]string{"", mod})
			}
		}
	}
	table.Render()
}
