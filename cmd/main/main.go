package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-steen/cal-tasks/pkg/config"
	"github.com/matt-steen/cal-tasks/pkg/controller"
	"github.com/matt-steen/cal-tasks/pkg/db"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	exportPath := flag.String("export", "", "write all tasks as an iCalendar file to this path and exit")
	flag.Parse()

	if err := run(*configPath, *exportPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, exportPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) && configPath == config.DefaultPath() {
		if err := cfg.Save(configPath); err != nil {
			return err
		}
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	dirPerms := 0o755
	filePerms := 0o666

	for _, path := range []string{cfg.Database.Path, cfg.Log.Path} {
		if err := os.MkdirAll(filepath.Dir(path), fs.FileMode(dirPerms)); err != nil {
			return fmt.Errorf("error creating directory for %s: %w", path, err)
		}
	}

	logFile, err := os.OpenFile(cfg.Log.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return fmt.Errorf("error opening log file %s: %w", cfg.Log.Path, err)
	}

	defer logFile.Close()

	zerolog.SetGlobalLevel(level)

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Str("db", cfg.Database.Path).Msg("starting application...")

	database, err := db.NewDatabase(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}

	defer database.Close()

	store := task.NewStore(database, cfg.Storage.Key)
	store.Load(ctx)

	if exportPath != "" {
		return export(store, exportPath)
	}

	controller, err := controller.NewController(ctx, store)
	if err != nil {
		return err
	}

	return controller.Go()
}

func export(store *task.Store, path string) error {
	ics := task.BuildICS(store.All(), time.Now())

	if err := os.WriteFile(path, []byte(ics), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("count", len(store.All())).Msg("exported tasks")

	return nil
}
