// Package main is a terminal playground for the ghosttype autocomplete
// pipeline. It hosts editable fields, completes words from an embedded
// dictionary, and renders the suggestion menu and inline ghost preview.
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghosttype/ghosttype/internal/config"
	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/word"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

//go:embed words.txt
var dictionary []byte

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(opts.LogLevel)
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger := logging.New(logCfg)

	store := config.NewStore(opts.ConfigPath, logger)
	defer store.Close()
	if err := store.Watch(); err != nil {
		logger.Warn("settings watch unavailable: %v", err)
	}

	words, err := suggest.ReadWordList(bytes.NewReader(dictionary))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading dictionary: %v\n", err)
		return 1
	}

	ui, err := newUI(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing terminal: %v\n", err)
		return 1
	}

	session := engine.NewSession(opts.Host, store.Current(), engine.Options{
		Engine:   suggest.NewWordListEngine(words),
		Measurer: word.MonoMeasurer{},
		Sink:     ui,
		Logger:   logger,
	})
	defer session.Close()
	store.Subscribe(session.ApplySettings)

	if err := ui.Run(session.Controller()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	ConfigPath string
	LogPath    string
	LogLevel   string
	Host       string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", defaultConfigPath(), "Path to settings file (shorthand)")
	flag.StringVar(&opts.LogPath, "log", "", "Write logs to file instead of stderr")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Host, "host", "demo.local", "Hostname evaluated against the domain gate")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ghosttype - inline word completion playground\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ghosttype [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  tab         accept suggestion and add a space\n")
		fmt.Fprintf(os.Stderr, "  shift+tab   accept suggestion verbatim\n")
		fmt.Fprintf(os.Stderr, "  up/down     move the menu selection\n")
		fmt.Fprintf(os.Stderr, "  1-9         pick a suggestion by number\n")
		fmt.Fprintf(os.Stderr, "  escape      dismiss the menu\n")
		fmt.Fprintf(os.Stderr, "  backspace   right after accepting, undo the completion\n")
		fmt.Fprintf(os.Stderr, "  F2          switch fields\n")
		fmt.Fprintf(os.Stderr, "  ctrl+c      quit\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("ghosttype %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ghosttype.toml"
	}
	return filepath.Join(dir, "ghosttype", "settings.toml")
}
