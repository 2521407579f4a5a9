// Command import loads participants from a CSV file.
//
//	go run ./cmd/import -file participants.csv
//	IMPORT_FILE=participants.csv IMPORT_DRY_RUN=true go run ./cmd/import
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/config"
	"github.com/ArowuTest/secret-santa-backend/internal/logging"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/ArowuTest/secret-santa-backend/internal/storage"
	"github.com/ArowuTest/secret-santa-backend/internal/utils"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	file := flag.String("file", config.GetEnv("IMPORT_FILE", ""), "CSV file with identifier, name, email and tier columns")
	dryRun := flag.Bool("dry-run", config.GetEnvAsBool("IMPORT_DRY_RUN", false), "parse and report without writing")
	flag.Parse()
	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file participants.csv [-dry-run]")
		os.Exit(2)
	}

	if err := run(*file, *dryRun); err != nil {
		slog.Error("Import failed", "error", err, "file", *file)
		os.Exit(1)
	}
}

func run(path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	if dryRun {
		logging.New("info", nil)
		rows, rowErrors, err := utils.ParseParticipantsCSV(f)
		if err != nil {
			return err
		}
		for _, msg := range rowErrors {
			slog.Warn("Row skipped", "reason", msg)
		}
		slog.Info("Dry run complete", "valid", len(rows), "skipped", len(rowErrors))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.New(cfg.LogLevel, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close(context.Background())

	participantService := services.NewParticipantService(repos.Participants, repos.Assignments, repos.MatchRuns, services.ParticipantRules{
		PledgeMinLength:  cfg.Exchange.PledgeMinLength,
		WishlistMaxItems: cfg.Exchange.WishlistMaxItems,
	})
	summary, err := participantService.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	for _, msg := range summary.Errors {
		slog.Warn("Row skipped", "reason", msg)
	}
	slog.Info("Import complete", "created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return nil
}
