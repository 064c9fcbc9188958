// hexmaptool is a maintenance tool for hex map and tileset files:
// validate them, upgrade them to the current schema version, rewrite
// them in canonical form, or print a summary.
package main

import (
	"fmt"
	"os"

	"github.com/hexforge/hexed/internal/config"
	"github.com/hexforge/hexed/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing command")
	}

	if err := config.Load("."); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logManager := logging.NewManager()
	if err := logManager.Setup(logging.Options{
		Level:   config.GetString("logLevel"),
		LogsDir: config.GetString("logsDir"),
		AppName: "hexmaptool",
	}); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logManager.Close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return cmdValidate(rest)
	case "upgrade":
		return cmdUpgrade(rest)
	case "fmt":
		return cmdFmt(rest)
	case "info":
		return cmdInfo(rest)
	case "library":
		return cmdLibrary(rest, logManager.Logger())
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: hexmaptool <command> [arguments]

commands:
  validate <file>...        check files and report violations
  upgrade  <file> [-o out]  rewrite a file at the current schema version
  fmt      <file>...        rewrite files in canonical form
  info     <file>...        print version and content summary
  library import <file>...  record tilesets in the configured library
  library list              list recorded tilesets
`)
}
