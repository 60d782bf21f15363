package main

import (
	"context"
	"errors"
	"os"

	"KeybindScanner/internal"
	"KeybindScanner/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "keybindviewer",
		Usage:     "Browse keybind scan results in the terminal",
		ArgsUsage: "[DIRECTORY...]",
		Description: "With directories given, runs a scan and opens the result. " +
			"Without arguments, opens the report from --report or the last-used one.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "Path to a saved keybinds.json report",
			},
			&cli.BoolFlag{
				Name:    "case-insensitive",
				Aliases: []string{"i"},
				Usage:   "Case insensitive matching (scan mode)",
			},
			&cli.BoolFlag{
				Name:    "whole-word",
				Aliases: []string{"w"},
				Usage:   "Whole word matching (scan mode)",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "Text encoding of scanned files",
				Value:   internal.DefaultEncoding,
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
	// viewer logs must not fight with the UI
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)

	settingsPath, err := tui.SettingsPath()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	settings, err := tui.LoadSettings(settingsPath)
	if err != nil {
		logrus.WithError(err).Warn("settings unreadable, using defaults")
	}

	dirs := c.Args().Slice()
	reportPath := c.String("report")

	var load tea.Cmd
	switch {
	case len(dirs) > 0:
		cfg := internal.DefaultConfig()
		cfg.CaseInsensitive = c.Bool("case-insensitive")
		cfg.WholeWord = c.Bool("whole-word")
		cfg.Encoding = c.String("encoding")
		cfg.Archives = c.Bool("archives")
		coord, err := internal.NewScanCoordinator(cfg)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		settings.Directories = dirs
		load = func() tea.Msg {
			report, err := coord.Run(context.Background(), dirs)
			if err != nil {
				return tui.MsgError(err)
			}
			return tui.MsgReportReady(report)
		}
	case reportPath != "", settings.ReportPath != "":
		if reportPath == "" {
			reportPath = settings.ReportPath
		}
		settings.ReportPath = reportPath
		path := reportPath
		load = func() tea.Msg {
			report, err := internal.LoadReport(path)
			if err != nil {
				return tui.MsgError(err)
			}
			return tui.MsgReportReady(report)
		}
	default:
		return cli.Exit(errors.New("nothing to show: give directories to scan or --report").Error(), 1)
	}

	model := tui.InitialModel(settings, settingsPath, load)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
