package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/moviepedia/internal/encyclopedia"
	"github.com/mrlokans/moviepedia/internal/entities"
)

type fakeStore struct {
	movies   map[string]entities.Movie
	inserted []entities.Movie
	updated  map[string]any
	deleted  []string
}

func newFakeStore(movies ...entities.Movie) *fakeStore {
	store := &fakeStore{movies: make(map[string]entities.Movie)}
	for _, movie := range movies {
		store.movies[movie.Name] = movie
	}
	return store
}

func (f *fakeStore) Insert(ctx context.Context, movie entities.Movie) error {
	f.inserted = append(f.inserted, movie)
	f.movies[movie.Name] = movie
	return nil
}

func (f *fakeStore) Update(ctx context.Context, name string, fields map[string]any) error {
	if _, ok := f.movies[name]; !ok {
		return encyclopedia.ErrNotFound
	}
	f.updated = fields
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	if _, ok := f.movies[name]; !ok {
		return encyclopedia.ErrNotFound
	}
	delete(f.movies, name)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, field, substring string, limit int) ([]entities.Movie, error) {
	var result []entities.Movie
	for _, movie := range f.movies {
		for _, genre := range movie.Genre {
			if strings.Contains(strings.ToLower(genre), strings.ToLower(substring)) {
				result = append(result, movie)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeStore) Get(ctx context.Context, name string) (*entities.Movie, error) {
	movie, ok := f.movies[name]
	if !ok {
		return nil, encyclopedia.ErrNotFound
	}
	return &movie, nil
}

func (f *fakeStore) ReplaceAll(ctx context.Context, movies []entities.Movie) error { return nil }

func (f *fakeStore) Close(ctx context.Context) error { return nil }

// runShell drives the loop with a scripted session; the trailing "q" is
// appended so every script terminates.
func runShell(t *testing.T, store *fakeStore, lines ...string) string {
	t.Helper()

	input := strings.Join(append(lines, "q"), "\n") + "\n"
	var out bytes.Buffer

	s := &shell{
		enc: encyclopedia.New(store),
		in:  bufio.NewReader(strings.NewReader(input)),
		out: &out,
	}
	require.NoError(t, s.run(context.Background()))
	return out.String()
}

func TestShell_SearchByGenre(t *testing.T) {
	store := newFakeStore(
		entities.Movie{Name: "Dune", Rating: 8.5, Genre: []string{"Sci-Fi"}},
		entities.Movie{Name: "Casablanca", Rating: 8.5, Genre: []string{"Drama"}},
	)

	out := runShell(t, store, "3", "sci")

	assert.Contains(t, out, "Dune - Rating: 8.5")
	assert.NotContains(t, out, "Casablanca")
}

func TestShell_SearchNoResults(t *testing.T) {
	out := runShell(t, newFakeStore(), "3", "western")

	assert.Contains(t, out, "No movies found.")
}

func TestShell_GetDetails(t *testing.T) {
	store := newFakeStore(entities.Movie{
		Name:      "Dune",
		Year:      "2021",
		Rating:    8.5,
		Genre:     []string{"Sci-Fi", "Adventure"},
		Directors: []string{"Denis Villeneuve"},
	})

	out := runShell(t, store, "5", "Dune")

	assert.Contains(t, out, "Name: Dune")
	assert.Contains(t, out, "Year: 2021")
	assert.Contains(t, out, "Rating: 8.5")
	assert.Contains(t, out, "Genre: Sci-Fi, Adventure")
	assert.Contains(t, out, "Certificate: N/A")
	assert.Contains(t, out, "Director: Denis Villeneuve")
}

func TestShell_GetDetailsMiss(t *testing.T) {
	out := runShell(t, newFakeStore(), "5", "Nope")

	assert.Contains(t, out, "Movie not found.")
}

func TestShell_AddMovie(t *testing.T) {
	store := newFakeStore()

	out := runShell(t, store, "6", "Dune", "Sci-Fi,Adventure", "Denis Villeneuve", "PG-13", "8.5")

	assert.Contains(t, out, "Added movie: Dune")
	require.Len(t, store.inserted, 1)
	assert.Equal(t, []string{"Sci-Fi", "Adventure"}, store.inserted[0].Genre)
	assert.Equal(t, 8.5, store.inserted[0].Rating)
}

func TestShell_AddMovieRejectsMissingGenre(t *testing.T) {
	store := newFakeStore()

	out := runShell(t, store, "6", "Dune", "", "Denis Villeneuve", "PG-13", "8.5")

	assert.Contains(t, out, "Error: invalid genre")
	assert.Empty(t, store.inserted)
}

func TestShell_AddMovieRejectsBadRating(t *testing.T) {
	out := runShell(t, newFakeStore(), "6", "Dune", "Sci-Fi", "", "", "very good")

	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "must be numeric")
}

func TestShell_UpdateRating(t *testing.T) {
	store := newFakeStore(entities.Movie{Name: "Dune", Rating: 8.5, Genre: []string{"Sci-Fi"}})

	out := runShell(t, store, "7", "Dune", "9")

	assert.Contains(t, out, "Updated movie: Dune with new rating: 9")
	assert.Equal(t, 9.0, store.updated["rating"])
}

func TestShell_DeleteMovie(t *testing.T) {
	store := newFakeStore(entities.Movie{Name: "Dune", Rating: 8.5, Genre: []string{"Sci-Fi"}})

	out := runShell(t, store, "8", "Dune")

	assert.Contains(t, out, "Deleted movie: Dune")
	assert.Equal(t, []string{"Dune"}, store.deleted)
}

func TestShell_DeleteMissingMovieIsInformational(t *testing.T) {
	out := runShell(t, newFakeStore(), "8", "Nope")

	assert.Contains(t, out, "No movie found with that name.")
}

func TestShell_UnknownChoice(t *testing.T) {
	out := runShell(t, newFakeStore(), "x")

	assert.Contains(t, out, `Unknown choice "x"`)
}

func TestFormatMovieDetails_AllFieldsMissing(t *testing.T) {
	details := formatMovieDetails(&entities.Movie{Name: "Mystery", Rating: 5})

	assert.Contains(t, details, "Year: N/A")
	assert.Contains(t, details, "Genre: N/A")
	assert.Contains(t, details, "Director: N/A")
}
