package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spellstory/internal/config"
	"spellstory/internal/database"
	"spellstory/internal/repository"
	"spellstory/internal/service"
	"spellstory/internal/storage"
	"spellstory/internal/validation"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	exportLearners := exportCmd.String("learners", "", "Comma-separated learner ids whose progress is included")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store, closeStore, err := repository.OpenStore(ctx, cfg.StoreBackend, cfg.RedisURL, db)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}
	defer closeStore()

	backupService := service.NewBackupService(repository.NewListRepository(db), storage.NewProgress(store))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		learners, err := parseLearners(*exportLearners)
		if err != nil {
			log.Fatalf("Invalid -learners: %v", err)
		}
		handleExport(ctx, backupService, *exportOutput, learners)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func parseLearners(raw string) ([]string, error) {
	var learners []string
	for _, l := range strings.Split(raw, ",") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if err := validation.ValidateLearner(l); err != nil {
			return nil, err
		}
		learners = append(learners, l)
	}
	return learners, nil
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string, learners []string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting lists and %d learner(s) to: %s", len(learners), outputPath)
	if err := backupService.Export(ctx, outputPath, learners); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
	}
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	log.Printf("Importing backup from: %s", inputPath)
	if err := backupService.Import(ctx, inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Spellstory Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export word lists and learner progress to JSON")
	fmt.Println("  backup import [options]    Import word lists and learner progress from JSON")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>      Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println("  -learners <ids>     Comma-separated learner ids to include")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>       Input file path (required)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -learners maya,leo")
	fmt.Println("  backup import -input backup.json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./spellstory.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  STORE_BACKEND    Progress store: sql, redis, or memory (default: sql)")
}
