package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/moviepedia/internal/audit"
	"github.com/mrlokans/moviepedia/internal/config"
	"github.com/mrlokans/moviepedia/internal/database"
	"github.com/mrlokans/moviepedia/internal/encyclopedia"
	"github.com/mrlokans/moviepedia/internal/entities"
)

// ShellCommand runs the interactive encyclopedia shell: a menu of form-style
// operations, each one blocking call into the facade.
type ShellCommand struct {
	Backend string
	Audit   bool
}

func NewShellCommand() *ShellCommand {
	return &ShellCommand{}
}

func (cmd *ShellCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)

	fs.StringVar(&cmd.Backend, "backend", "", "Database backend: mongodb or dynamodb (prompted when omitted)")
	fs.BoolVar(&cmd.Audit, "audit", false, "Record mutating operations to the audit directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s shell [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Open the interactive movie encyclopedia shell.\n\n")
		fmt.Fprintf(os.Stderr, "Backend connection settings come from the environment (see .env):\n")
		fmt.Fprintf(os.Stderr, "  MONGODB_URI, MONGODB_DATABASE, MONGODB_COLLECTION\n")
		fmt.Fprintf(os.Stderr, "  DYNAMODB_TABLE, AWS_DEFAULT_REGION, DYNAMODB_ENDPOINT\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ShellCommand) Run() error {
	cfg := config.NewConfig()
	in := bufio.NewReader(os.Stdin)

	backend := cmd.Backend
	if backend == "" {
		backend = cfg.Backend
	}
	if backend == "" {
		backend = promptLine(in, os.Stdout, "Choose database backend (mongodb/dynamodb): ")
	}
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend != database.BackendMongoDB && backend != database.BackendDynamoDB {
		return fmt.Errorf("unknown backend %q (expected mongodb or dynamodb)", backend)
	}

	ctx := context.Background()
	store, err := database.NewStore(ctx, backend, cfg)
	if err != nil {
		return err
	}

	opts := []encyclopedia.Option{encyclopedia.WithSearchLimit(cfg.Search.Limit)}
	if cmd.Audit || cfg.Audit.Enabled {
		opts = append(opts, encyclopedia.WithAuditTrail(audit.NewTrail(cfg.Audit.Dir)))
	}
	enc := encyclopedia.New(store, opts...)
	defer enc.Close(ctx)

	fmt.Printf("Movie Encyclopedia (%s)\n", backend)

	s := &shell{enc: enc, in: in, out: os.Stdout}
	return s.run(ctx)
}

// shell holds the reader/writer pair so the loop is testable with scripted
// input.
type shell struct {
	enc *encyclopedia.Encyclopedia
	in  *bufio.Reader
	out io.Writer
}

const menu = `
Operations:
  1. Find movies by actor
  2. Find movies by director
  3. Find movies by genre
  4. Find movies by certificate
  5. Get movie details
  6. Add movie
  7. Update movie rating
  8. Delete movie
  q. Quit
`

func (s *shell) run(ctx context.Context) error {
	for {
		fmt.Fprint(s.out, menu)
		fmt.Fprint(s.out, "Select operation: ")
		line, err := s.in.ReadString('\n')
		choice := strings.TrimSpace(line)
		if err != nil && choice == "" {
			// stdin closed; leave quietly
			return nil
		}

		switch choice {
		case "1":
			s.search(ctx, "casts")
		case "2":
			s.search(ctx, "directors")
		case "3":
			s.search(ctx, "genre")
		case "4":
			s.search(ctx, "certificate")
		case "5":
			s.details(ctx)
		case "6":
			s.add(ctx)
		case "7":
			s.updateRating(ctx)
		case "8":
			s.delete(ctx)
		case "q", "quit", "exit":
			fmt.Fprintln(s.out, "Bye.")
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(s.out, "Unknown choice %q\n", choice)
		}
	}
}

func (s *shell) search(ctx context.Context, field string) {
	query := promptLine(s.in, s.out, "Enter search text: ")

	movies, err := s.enc.FindMovies(ctx, field, query)
	if err != nil {
		s.renderError(err)
		return
	}
	if len(movies) == 0 {
		fmt.Fprintln(s.out, "No movies found.")
		return
	}
	for _, movie := range movies {
		fmt.Fprintf(s.out, "%s - Rating: %s\n", movie.Name, entities.FormatRating(movie.Rating))
	}
}

func (s *shell) details(ctx context.Context) {
	name := promptLine(s.in, s.out, "Movie name: ")

	movie, err := s.enc.GetMovieDetails(ctx, name)
	if err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprint(s.out, formatMovieDetails(movie))
}

func (s *shell) add(ctx context.Context) {
	name := promptLine(s.in, s.out, "Movie name: ")
	genres := promptLine(s.in, s.out, "Genres (comma-separated): ")
	directors := promptLine(s.in, s.out, "Director(s) (comma-separated): ")
	certificate := promptLine(s.in, s.out, "Certificate: ")
	ratingStr := promptLine(s.in, s.out, "Rating: ")

	rating, err := entities.ParseRating(ratingStr)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	movie := entities.Movie{
		Name:        name,
		Rating:      rating,
		Certificate: certificate,
		Genre:       entities.SplitList(genres),
		Directors:   entities.SplitList(directors),
	}
	if err := s.enc.AddMovie(ctx, movie); err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Added movie: %s\n", movie.Name)
}

func (s *shell) updateRating(ctx context.Context) {
	name := promptLine(s.in, s.out, "Movie name: ")
	ratingStr := promptLine(s.in, s.out, "New rating: ")

	rating, err := entities.ParseRating(ratingStr)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	if err := s.enc.UpdateMovie(ctx, name, map[string]any{"rating": rating}); err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Updated movie: %s with new rating: %s\n", name, entities.FormatRating(rating))
}

func (s *shell) delete(ctx context.Context) {
	name := promptLine(s.in, s.out, "Movie name: ")

	err := s.enc.DeleteMovie(ctx, name)
	if errors.Is(err, encyclopedia.ErrNotFound) {
		fmt.Fprintln(s.out, "No movie found with that name.")
		return
	}
	if err != nil {
		s.renderError(err)
		return
	}
	fmt.Fprintf(s.out, "Deleted movie: %s\n", name)
}

// renderError keeps the shell running: validation problems and misses are
// informational, everything else is printed and the loop continues.
func (s *shell) renderError(err error) {
	if errors.Is(err, encyclopedia.ErrNotFound) {
		fmt.Fprintln(s.out, "Movie not found.")
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func formatMovieDetails(movie *entities.Movie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", movie.Name)
	fmt.Fprintf(&b, "Year: %s\n", orNA(movie.Year))
	fmt.Fprintf(&b, "Rating: %s\n", entities.FormatRating(movie.Rating))
	fmt.Fprintf(&b, "Genre: %s\n", orNA(strings.Join(movie.Genre, ", ")))
	fmt.Fprintf(&b, "Certificate: %s\n", orNA(movie.Certificate))
	fmt.Fprintf(&b, "Director: %s\n", orNA(strings.Join(movie.Directors, ", ")))
	return b.String()
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func promptLine(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
