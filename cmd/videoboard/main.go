package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/auth"
	"github.com/dvieira/videoboard/internal/board"
	"github.com/dvieira/videoboard/internal/config"
	"github.com/dvieira/videoboard/internal/enhance"
	"github.com/dvieira/videoboard/internal/logging"
	"github.com/dvieira/videoboard/internal/storage"
	"github.com/dvieira/videoboard/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("videoboard %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	configPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.DataDir, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	cards, err := board.Open(store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading board: %v\n", err)
		os.Exit(1)
	}
	session, err := auth.Open(store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading user directory: %v\n", err)
		os.Exit(1)
	}

	// Enhancement stays optional; without a key the button disappears.
	var enhancer enhance.Enhancer
	if key := cfg.APIKey(); key != "" {
		g, err := enhance.NewGemini(context.Background(), key, cfg.Enhance.Model)
		if err != nil {
			logger.Warn("enhancement unavailable", zap.Error(err))
		} else {
			enhancer = g
		}
	}

	app := ui.NewApp(cards, session, enhancer, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// openStorage builds the configured blob-store backend.
func openStorage(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageFile:
		st, err := storage.NewFile(filepath.Join(cfg.DataDir, "state"))
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	default:
		st, err := storage.NewSQLite(filepath.Join(cfg.DataDir, "videoboard.db"))
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	}
}
