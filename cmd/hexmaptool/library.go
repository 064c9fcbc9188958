package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hexforge/hexed/internal/config"
	"github.com/hexforge/hexed/internal/library"
	"github.com/hexforge/hexed/internal/logging"
	"github.com/hexforge/hexed/internal/persist"
	"github.com/hexforge/hexed/internal/task"
	"github.com/hexforge/hexed/internal/telemetry"
)

// cmdLibrary talks to the configured tileset library backend. Import
// runs through the same service path the editor uses, so imported
// files are decoded, upgraded and recorded exactly as a live session
// would record them.
func cmdLibrary(args []string, log zerolog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("library: expected import or list")
	}

	store, err := library.NewStore(config.Library(), log)
	if err != nil {
		return fmt.Errorf("creating library store: %w", err)
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("initializing library store: %w", err)
	}
	defer store.Close()

	switch args[0] {
	case "import":
		return libraryImport(args[1:], store, log)
	case "list":
		return libraryList(store)
	default:
		return fmt.Errorf("library: unknown subcommand %q", args[0])
	}
}

func libraryImport(paths []string, store library.Store, log zerolog.Logger) error {
	if len(paths) == 0 {
		return fmt.Errorf("library import: no files given")
	}

	runner, err := task.NewRunner(logging.NewRunnerLogger(log))
	if err != nil {
		return fmt.Errorf("creating task runner: %w", err)
	}
	defer runner.Close()

	tm := telemetry.NewManager(log)
	if err := tm.Connect(); err != nil {
		return fmt.Errorf("connecting telemetry: %w", err)
	}
	defer tm.Close()

	policies, err := persist.PoliciesFromConfig()
	if err != nil {
		return err
	}
	svc := persist.NewService(runner, store, tm, log, policies)

	for _, path := range paths {
		h := svc.ImportTileset(path)
		res, err := h.Wait(context.Background())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if res.Err != nil {
			return fmt.Errorf("%s: %w", path, res.Err)
		}
		fmt.Printf("%s: recorded %q (%d tiles)\n", path, res.Value.DisplayName, len(res.Value.Tileset.Tiles))
	}
	return nil
}

func libraryList(store library.Store) error {
	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("library is empty")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%-24s %3d tiles  %-8s %s  %s\n",
			rec.Name, rec.TileCount, rec.LastAction, rec.RecordedAt.Format("2006-01-02 15:04"), rec.SourcePath)
	}
	return nil
}
