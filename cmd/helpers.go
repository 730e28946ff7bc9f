package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/user/gitstar/internal/config"
	"github.com/user/gitstar/internal/db"
	"github.com/user/gitstar/internal/favorites"
	"github.com/user/gitstar/internal/logger"
	"github.com/user/gitstar/internal/settings"
)

// app holds everything a command needs, opened from the loaded config.
type app struct {
	cfg       *config.Config
	records   db.Store
	favorites *favorites.Store
	settings  *settings.Store
	logFile   io.Closer
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := logger.Init(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}

	records, err := db.Open(cfg.Storage.Backend, cfg.DataDir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	slog.Debug("storage opened", "backend", cfg.Storage.Backend, "data_dir", cfg.DataDir)

	return newApp(cfg, records, logFile), nil
}

func newApp(cfg *config.Config, records db.Store, logFile io.Closer) *app {
	return &app{
		cfg:       cfg,
		records:   records,
		favorites: favorites.NewStore(favorites.NewRecordBackend(records), favorites.WithLogger(slog.Default())),
		settings:  settings.NewStore(records),
		logFile:   logFile,
	}
}

func (a *app) Close() error {
	err := a.records.Close()
	if a.logFile != nil {
		err = errors.Join(err, a.logFile.Close())
	}
	return err
}

// truncate shortens s to maxLen runes, ending with "...".
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
