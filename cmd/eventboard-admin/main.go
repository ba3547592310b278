// Package main is the entry point for the Eventboard admin CLI.
// This tool provides administrative commands for managing user accounts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/trelvik/eventboard/internal/config"
	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/repository"
	"github.com/trelvik/eventboard/internal/repository/postgres"
	"github.com/trelvik/eventboard/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Eventboard Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUserCommand(os.Args[2:]); err != nil {
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

func runUserCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user subcommand required (create, list, promote, demote)")
	}

	ctx := context.Background()

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		username := fs.String("username", "", "username (required)")
		email := fs.String("email", "", "email address (required)")
		password := fs.String("password", "", "password (required)")
		admin := fs.Bool("admin", false, "grant admin rights")
		fs.Parse(args[1:])

		if *username == "" || *email == "" || *password == "" {
			return fmt.Errorf("--username, --email and --password are required")
		}

		return withRepositories(ctx, *configPath, func(repos repository.Repositories) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			user := domain.NewUser(*username, *email, string(hash))
			user.IsAdmin = *admin
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}

			fmt.Printf("Created user %q (id=%d, admin=%t)\n", user.Username, user.ID, user.IsAdmin)
			return nil
		})

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		fs.Parse(args[1:])

		return withRepositories(ctx, *configPath, func(repos repository.Repositories) error {
			users, err := repos.Users.List(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-6s %-24s %-32s %-6s %s\n", "ID", "USERNAME", "EMAIL", "ADMIN", "CREATED")
			for _, u := range users {
				fmt.Printf("%-6d %-24s %-32s %-6t %s\n",
					u.ID, u.Username, u.Email, u.IsAdmin, u.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})

	case "promote", "demote":
		isAdmin := args[0] == "promote"
		fs := flag.NewFlagSet("user "+args[0], flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		id := fs.Int64("id", 0, "user ID (required)")
		fs.Parse(args[1:])

		if *id <= 0 {
			return fmt.Errorf("--id is required")
		}

		return withRepositories(ctx, *configPath, func(repos repository.Repositories) error {
			if err := repos.Users.SetAdmin(ctx, *id, isAdmin); err != nil {
				return err
			}
			fmt.Printf("User %d admin=%t\n", *id, isAdmin)
			return nil
		})

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

// withRepositories opens the configured database, runs fn against the
// repository set and closes the connection afterwards.
func withRepositories(ctx context.Context, configPath string, fn func(repository.Repositories) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.ConfigFromDatabase(cfg.Database), logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		return fn(repository.Repositories{
			Users: sqlite.NewUserRepository(db),
			Posts: sqlite.NewPostRepository(db),
		})
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	return fn(repository.Repositories{
		Users: postgres.NewUserRepository(db),
		Posts: postgres.NewPostRepository(db),
	})
}

func printUsage() {
	fmt.Println(`Eventboard Admin CLI

Usage:
  eventboard-admin <command> [arguments]

Commands:
  user        Manage users (create, list, promote, demote)
  version     Print version information
  help        Show this help message

Examples:
  eventboard-admin user create --username admin --email admin@example.com --password secret123 --admin
  eventboard-admin user list
  eventboard-admin user promote --id 3
  eventboard-admin user demote --id 3

Use "eventboard-admin user <subcommand> --help" for flag details.`)
}
