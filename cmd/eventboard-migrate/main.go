// Package main is the entry point for the Eventboard database migration tool.
// It applies the embedded schema migrations for either backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/config"
	"github.com/trelvik/eventboard/internal/repository/postgres"
	"github.com/trelvik/eventboard/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// migrator is satisfied by both backend DB wrappers.
type migrator interface {
	Migrate(ctx context.Context) error
	MigrationVersion(ctx context.Context) (int, error)
	Close() error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Eventboard Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "status":
		if err := runMigration(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runMigration(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	var db migrator
	if cfg.Database.IsEmbedded() {
		db, err = sqlite.NewDB(ctx, sqlite.ConfigFromDatabase(cfg.Database), logger)
	} else {
		db, err = postgres.NewDB(ctx, cfg.Database, logger)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up":
		before, err := db.MigrationVersion(ctx)
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		after, err := db.MigrationVersion(ctx)
		if err != nil {
			return err
		}
		if after == before {
			fmt.Printf("No pending migrations (version %d)\n", after)
		} else {
			fmt.Printf("Migrated from version %d to %d\n", before, after)
		}

	case "status":
		version, err := db.MigrationVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Driver:  %s\n", cfg.Database.Driver)
		fmt.Printf("Version: %d\n", version)
	}

	return nil
}

func printUsage() {
	fmt.Println(`Eventboard Migration Tool

Usage:
  eventboard-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

Flags:
  --config    Path to the YAML config file (environment variables with
              the EVENTBOARD_ prefix work as well)`)
}
