package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/job-broker/internal/config"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn     = flag.String("dsn", "", "Database connection string (default: DATABASE_DSN, then config.toml)")
		all     = flag.Bool("all", false, "Run all seeders")
		jobsArg = flag.Bool("jobs", false, "Seed sample jobs")
		file    = flag.String("file", "", "External seed file (overrides embedded)")
		list    = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if !*all && !*jobsArg {
		fmt.Println("usage: seed [-dsn <connection-string>] [-all|-jobs] [-file <path>] [-list]")
		flag.PrintDefaults()
		return
	}

	conn, err := resolveDSN(*dsn)
	if err != nil {
		log.Fatalf("database connection string required: %v", err)
	}

	db, err := sql.Open("pgx", conn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	if *all {
		if err := runSeeders(ctx, db, listSeeders()...); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")
		return
	}

	seeder, _ := getSeeder("jobs")
	if *file != "" {
		seeder.(*JobSeeder).SetFile(*file)
	}
	if err := runSeeders(ctx, db, seeder); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Println("jobs seeded successfully")
}

// resolveDSN prefers the flag, then DATABASE_DSN, then the service configuration.
func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("use -dsn, %s, or a valid config.toml: %w", EnvDatabaseDSN, err)
	}
	return cfg.Database.Dsn(), nil
}
