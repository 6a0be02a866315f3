package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/moviepedia/internal/audit"
	"github.com/mrlokans/moviepedia/internal/config"
	"github.com/mrlokans/moviepedia/internal/database"
	"github.com/mrlokans/moviepedia/internal/encyclopedia"
	"github.com/mrlokans/moviepedia/internal/moviecsv"
)

// ImportCSVCommand bulk-loads a tabular movie export into the selected
// backend, replacing whatever the store currently holds.
type ImportCSVCommand struct {
	FilePath string
	Backend  string
	Verbose  bool
	DryRun   bool
	Audit    bool
}

func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{}
}

func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the movie CSV file (required)")
	fs.StringVar(&cmd.Backend, "backend", "", "Database backend: mongodb or dynamodb (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and report without writing to the backend")
	fs.BoolVar(&cmd.Audit, "audit", false, "Record the import to the audit directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> -backend <mongodb|dynamodb> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replace the backend's contents with the rows of a movie CSV export.\n\n")
		fmt.Fprintf(os.Stderr, "Expected columns: name, year, rating, certificate, genre, casts, directors.\n")
		fmt.Fprintf(os.Stderr, "The genre, casts and directors columns hold comma-separated lists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview what would be loaded:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file movies.csv -backend mongodb -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Load into DynamoDB:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file movies.csv -backend dynamodb\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if !cmd.DryRun && cmd.Backend == "" {
		return fmt.Errorf("required flag -backend not provided")
	}

	return nil
}

func (cmd *ImportCSVCommand) Run() error {
	fmt.Println("Movie CSV Import")
	fmt.Println("================")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	fmt.Printf("File: %s\n", cmd.FilePath)

	if cmd.DryRun {
		movies, rowErrors, err := moviecsv.Parse(file)
		if err != nil {
			return err
		}
		fmt.Printf("Parsed %d movies (%d rows skipped)\n", len(movies), len(rowErrors))
		if cmd.Verbose {
			for i, movie := range movies {
				fmt.Printf("%d. %q (%s) - Rating: %.1f\n", i+1, movie.Name, movie.Year, movie.Rating)
			}
			for _, rowErr := range rowErrors {
				fmt.Printf("  [SKIPPED] %s\n", rowErr)
			}
		}
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	cfg := config.NewConfig()
	ctx := context.Background()

	store, err := database.NewStore(ctx, cmd.Backend, cfg)
	if err != nil {
		return err
	}

	opts := []encyclopedia.Option{}
	if cmd.Audit || cfg.Audit.Enabled {
		opts = append(opts, encyclopedia.WithAuditTrail(audit.NewTrail(cfg.Audit.Dir)))
	}
	enc := encyclopedia.New(store, opts...)
	defer enc.Close(ctx)

	fmt.Printf("Loading into %s...\n", cmd.Backend)

	result, err := enc.LoadFromCSV(ctx, file)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Rows processed: %d\n", result.RowsProcessed)
	fmt.Printf("Movies loaded: %d\n", result.MoviesLoaded)

	if len(result.RowErrors) > 0 {
		fmt.Printf("\n%d rows skipped:\n", len(result.RowErrors))
		for _, rowErr := range result.RowErrors {
			fmt.Printf("  [SKIPPED] %s\n", rowErr)
		}
	}

	fmt.Println("\nImport complete!")
	return nil
}
