package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ManuelReschke/PixelPress/internal/pkg/config"
	"github.com/ManuelReschke/PixelPress/internal/pkg/env"
)

func main() {
	// Lade Umgebungsvariablen aus .env-Datei
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	dbURL, err := databaseURL(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("connecting to %s %s@%s:%d/%s", cfg.DB.Driver, cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)

	m, err := migrate.New("file://migrations/"+migrationDir(cfg.DB.Driver), dbURL)
	if err != nil {
		log.Fatalf("init migrations: %v", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("close migrations: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		switch err := m.Up(); {
		case errors.Is(err, migrate.ErrNoChange):
			log.Println("no change: database is up to date")
		case err != nil:
			log.Fatalf("migrate up: %v", err)
		default:
			log.Println("migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatalf("roll back: %v", err)
		}
		log.Println("rolled back last migration")

	case "goto":
		if len(os.Args) < 3 {
			log.Fatalf("goto needs a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("invalid version: %v", err)
		}
		switch err := m.Migrate(uint(version)); {
		case errors.Is(err, migrate.ErrNoChange):
			log.Printf("no change: database is at version %d", version)
		case err != nil:
			log.Fatalf("migrate to %d: %v", version, err)
		default:
			log.Printf("migrated to version %d", version)
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			log.Println("no migrations applied yet")
		case err != nil:
			log.Fatalf("read version: %v", err)
		default:
			dirtyStatus := ""
			if dirty {
				dirtyStatus = " (dirty)"
			}
			log.Printf("current version: %d%s", version, dirtyStatus)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func migrationDir(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "mysql"
}

func databaseURL(db config.DB) (string, error) {
	user := url.UserPassword(db.User, db.Password)
	switch db.Driver {
	case "", "mysql":
		return fmt.Sprintf("mysql://%s@tcp(%s:%d)/%s?multiStatements=true", user.String(), db.Host, db.Port, db.Name), nil
	case "postgres":
		return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s", user.String(), db.Host, db.Port, db.Name, db.SSLMode), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current version")
}
