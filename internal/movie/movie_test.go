package movie

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenres resolves genre ids to names for the fake repository
type fakeGenres map[uuid.UUID]string

func (f fakeGenres) GenreExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

// fakeRepo keeps movies in memory with the same set semantics the database enforces
type fakeRepo struct {
	mu         sync.Mutex
	genres     fakeGenres
	movies     map[uuid.UUID]*Movie
	viewers    map[uuid.UUID]map[uuid.UUID]bool
	favourites map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeRepo(genres fakeGenres) *fakeRepo {
	return &fakeRepo{
		genres:     genres,
		movies:     map[uuid.UUID]*Movie{},
		viewers:    map[uuid.UUID]map[uuid.UUID]bool{},
		favourites: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

// snapshot copies the stored movie and resolves its genre
func (f *fakeRepo) snapshot(m *Movie) *Movie {
	out := *m
	out.Cast = append([]CastMember(nil), m.Cast...)
	out.Ratings = append([]Rating(nil), m.Ratings...)
	if name, ok := f.genres[m.GenreID]; ok {
		out.Genre = &Genre{ID: m.GenreID, Name: name}
	}
	return &out
}

func (f *fakeRepo) list(keep func(*Movie) bool, less func(a, b *Movie) bool, limit int) []*Movie {
	out := []*Movie{}
	for _, m := range f.movies {
		if keep == nil || keep(m) {
			out = append(out, f.snapshot(m))
		}
	}
	if less == nil {
		less = func(a, b *Movie) bool { return a.Title < b.Title }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeRepo) Create(ctx context.Context, movie *Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *movie
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.movies[movie.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	return f.snapshot(m), nil
}

func (f *fakeRepo) FindWithGenre(ctx context.Context, filter Filter) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(m *Movie) bool {
		if filter.GenreID != nil && m.GenreID != *filter.GenreID {
			return false
		}
		return filter.Featured == nil || m.Featured == *filter.Featured
	}, func(a, b *Movie) bool { return a.CreatedAt.After(b.CreatedAt) }, 0), nil
}

func (f *fakeRepo) FindByIDWithGenreAndRatings(ctx context.Context, id uuid.UUID) (*Movie, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) FindByGenre(ctx context.Context, genreID uuid.UUID) ([]*Movie, error) {
	return f.FindWithGenre(ctx, Filter{GenreID: &genreID})
}

func (f *fakeRepo) FindFeaturedMovies(ctx context.Context) ([]*Movie, error) {
	featured := true
	return f.FindWithGenre(ctx, Filter{Featured: &featured})
}

func (f *fakeRepo) SearchMovies(ctx context.Context, term string) ([]*Movie, error) {
	return f.AdvancedSearchMovies(ctx, SearchParams{Term: term})
}

func (f *fakeRepo) AdvancedSearchMovies(ctx context.Context, params SearchParams) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	term := strings.ToLower(params.Term)
	less := func(a, b *Movie) bool { return a.Title < b.Title }
	switch params.SortBy {
	case "views":
		less = func(a, b *Movie) bool { return a.Views < b.Views }
	case "rating":
		less = func(a, b *Movie) bool { return a.AverageRating < b.AverageRating }
	}
	if params.Desc {
		asc := less
		less = func(a, b *Movie) bool { return asc(b, a) }
	}
	return f.list(func(m *Movie) bool {
		if params.GenreID != nil && m.GenreID != *params.GenreID {
			return false
		}
		return term == "" || strings.Contains(strings.ToLower(m.Title), term) ||
			strings.Contains(strings.ToLower(m.Description), term)
	}, less, 0), nil
}

func (f *fakeRepo) Update(ctx context.Context, movie *Movie, withFeatured bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.movies[movie.ID]
	if !ok {
		return apperr.NotFound("Movie", movie.ID.String())
	}
	views, average, ratings, featured := stored.Views, stored.AverageRating, stored.Ratings, stored.Featured
	*stored = *movie
	stored.Views, stored.AverageRating, stored.Ratings = views, average, ratings
	if !withFeatured {
		stored.Featured = featured
	}
	stored.Genre = nil
	return nil
}

func (f *fakeRepo) DeleteByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	delete(f.movies, id)
	return m, nil
}

func (f *fakeRepo) UpsertRating(ctx context.Context, movieID, userID uuid.UUID, rating int, review string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.movies[movieID]
	found := false
	for i := range m.Ratings {
		if m.Ratings[i].UserID == userID {
			m.Ratings[i].Rating = rating
			m.Ratings[i].Review = review
			found = true
		}
	}
	if !found {
		m.Ratings = append(m.Ratings, Rating{MovieID: movieID, UserID: userID, Rating: rating, Review: review})
	}
	f.recompute(m)
	return nil
}

func (f *fakeRepo) recompute(m *Movie) {
	if len(m.Ratings) == 0 {
		m.AverageRating = 0
		return
	}
	total := 0
	for _, r := range m.Ratings {
		total += r.Rating
	}
	m.AverageRating = float64(total) / float64(len(m.Ratings))
}

func (f *fakeRepo) IncrementView(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.viewers[movieID] == nil {
		f.viewers[movieID] = map[uuid.UUID]bool{}
	}
	if f.viewers[movieID][userID] {
		return false, nil
	}
	f.viewers[movieID][userID] = true
	f.movies[movieID].Views++
	return true, nil
}

func (f *fakeRepo) UpdateAverageRating(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recompute(f.movies[id])
	return nil
}

func (f *fakeRepo) RecalculateAverageRatings(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var changed int64
	for _, m := range f.movies {
		before := m.AverageRating
		f.recompute(m)
		if before != m.AverageRating {
			changed++
		}
	}
	return changed, nil
}

func (f *fakeRepo) ToggleFeatured(ctx context.Context, id uuid.UUID) (*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	m.Featured = !m.Featured
	return f.snapshot(m), nil
}

func (f *fakeRepo) FindRecentMovies(ctx context.Context, limit int) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(nil, func(a, b *Movie) bool { return a.CreatedAt.After(b.CreatedAt) }, limit), nil
}

func (f *fakeRepo) FindTopRatedMovies(ctx context.Context, limit int) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(nil, func(a, b *Movie) bool { return a.AverageRating > b.AverageRating }, limit), nil
}

func (f *fakeRepo) FindMostViewedMovies(ctx context.Context, limit int) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(nil, func(a, b *Movie) bool { return a.Views > b.Views }, limit), nil
}

func (f *fakeRepo) FindSoonReleasingMovies(ctx context.Context, now time.Time, limit int) ([]*Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(m *Movie) bool { return m.ReleaseDate.After(now) },
		func(a, b *Movie) bool { return a.ReleaseDate.Before(b.ReleaseDate) }, limit), nil
}

func (f *fakeRepo) FindUserRating(ctx context.Context, movieID, userID uuid.UUID) (*Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[movieID]
	if !ok {
		return nil, nil
	}
	for i := range m.Ratings {
		if m.Ratings[i].UserID == userID {
			r := m.Ratings[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) IsFavouritedBy(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favourites[movieID][userID], nil
}

func newTestService(t *testing.T) (Service, *fakeRepo, uuid.UUID) {
	t.Helper()
	actionID := uuid.New()
	repo := newFakeRepo(fakeGenres{actionID: "Action"})
	return NewService(repo, repo.genres, logger.Nop()), repo, actionID
}

func validInput(genreID uuid.UUID, title string) *MovieInput {
	return &MovieInput{
		Title:       "  " + title + " ",
		Description: "A thief who steals corporate secrets",
		ReleaseDate: "2010-07-16",
		Genre:       genreID.String(),
		Runtime:     "148",
		MovieType:   "movie",
		TrailerLink: "https://example.com/trailer",
		Cast:        `[{"name":" Leonardo DiCaprio ","type":"Actor"},{"name":"Christopher Nolan","type":"Director"}]`,
	}
}

func TestService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)

	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "uploads/inception.jpg")
	require.NoError(t, err)

	found, err := svc.GetMovieByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inception", found.Title)
	assert.Equal(t, "A thief who steals corporate secrets", found.Description)
	assert.Equal(t, time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), found.ReleaseDate)
	assert.Equal(t, 148, found.Runtime)
	assert.Equal(t, TypeMovie, found.MovieType)
	assert.Equal(t, "uploads/inception.jpg", found.CoverImage)
	require.NotNil(t, found.Genre)
	assert.Equal(t, "Action", found.Genre.Name)
	require.Len(t, found.Cast, 2)
	assert.Equal(t, CastMember{Position: 0, Name: "Leonardo DiCaprio", Type: "Actor"}, found.Cast[0])
	assert.Equal(t, 0.0, found.AverageRating)
}

func TestService_CreateMovie_UnknownGenre(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateMovie(context.Background(), validInput(uuid.New(), "Inception"), "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_UpdateMovie(t *testing.T) {
	ctx := context.Background()
	svc, repo, actionID := newTestService(t)

	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "uploads/old.jpg")
	require.NoError(t, err)
	_, err = svc.ToggleFeaturedStatus(ctx, created.ID)
	require.NoError(t, err)
	_, err = repo.IncrementView(ctx, created.ID, uuid.New())
	require.NoError(t, err)

	input := validInput(actionID, "Inception (Director's Cut)")
	input.Cast = `[{"name":"Tom Hardy","type":"Actor"}]`
	updated, err := svc.UpdateMovie(ctx, created.ID, input, "")
	require.NoError(t, err)
	assert.Equal(t, "Inception (Director's Cut)", updated.Title)
	assert.Equal(t, "uploads/old.jpg", updated.CoverImage)
	assert.True(t, updated.Featured)
	assert.Equal(t, int64(1), updated.Views)
	require.Len(t, updated.Cast, 1)

	input.Featured = "false"
	updated, err = svc.UpdateMovie(ctx, created.ID, input, "uploads/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "uploads/new.jpg", updated.CoverImage)
	assert.False(t, updated.Featured)

	_, err = svc.UpdateMovie(ctx, uuid.New(), input, "")
	assert.True(t, apperr.IsNotFound(err))
}

// togglingRepo flips the featured flag right after the movie is read, as a
// concurrent PATCH /featured would
type togglingRepo struct {
	*fakeRepo
}

func (r togglingRepo) FindByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	m, err := r.fakeRepo.FindByID(ctx, id)
	if err != nil || m == nil {
		return m, err
	}
	if _, err := r.fakeRepo.ToggleFeatured(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

func TestService_UpdateMovie_KeepsConcurrentFeaturedToggle(t *testing.T) {
	ctx := context.Background()
	_, repo, actionID := newTestService(t)
	svc := NewService(togglingRepo{repo}, repo.genres, logger.Nop())

	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	require.False(t, created.Featured)

	updated, err := svc.UpdateMovie(ctx, created.ID, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	assert.True(t, updated.Featured)
}

func TestService_DeleteMovie(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)

	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMovie(ctx, created.ID))
	assert.True(t, apperr.IsNotFound(svc.DeleteMovie(ctx, created.ID)))
}

func TestService_AddRating(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)
	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	alice, bob := uuid.New(), uuid.New()

	t.Run("overwrites the user's rating", func(t *testing.T) {
		_, err := svc.AddRating(ctx, created.ID, alice, &RatingInput{Rating: 2})
		require.NoError(t, err)
		rated, err := svc.AddRating(ctx, created.ID, alice, &RatingInput{Rating: 4, Review: " better "})
		require.NoError(t, err)

		require.Len(t, rated.Ratings, 1)
		assert.Equal(t, 4, rated.Ratings[0].Rating)
		assert.Equal(t, "better", rated.Ratings[0].Review)
		assert.Equal(t, 4.0, rated.AverageRating)
	})

	t.Run("average is the mean", func(t *testing.T) {
		rated, err := svc.AddRating(ctx, created.ID, bob, &RatingInput{Rating: 1})
		require.NoError(t, err)
		assert.Len(t, rated.Ratings, 2)
		assert.InDelta(t, 2.5, rated.AverageRating, 0.0001)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, value := range []int{0, 6, -1} {
			_, err := svc.AddRating(ctx, created.ID, alice, &RatingInput{Rating: value})
			require.Error(t, err)
			assert.Equal(t, "Rating must be between 1 and 5", apperr.As(err).Message)
		}
	})

	t.Run("unknown movie", func(t *testing.T) {
		_, err := svc.AddRating(ctx, uuid.New(), alice, &RatingInput{Rating: 3})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestService_IncrementMovieView(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)
	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	viewer := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementMovieView(ctx, created.ID, viewer)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	viewed, err := svc.IncrementMovieView(ctx, created.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(2), viewed.Views)

	_, err = svc.IncrementMovieView(ctx, uuid.New(), viewer)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_ToggleFeaturedTwice(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)
	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	original := created.Featured

	first, err := svc.ToggleFeaturedStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, !original, first.Featured)

	second, err := svc.ToggleFeaturedStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, original, second.Featured)

	_, err = svc.ToggleFeaturedStatus(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_AdvancedSearchDefaultsToTitleAscending(t *testing.T) {
	ctx := context.Background()
	svc, _, actionID := newTestService(t)
	for _, title := range []string{"Zodiac", "Avatar", "Memento"} {
		_, err := svc.CreateMovie(ctx, validInput(actionID, title), "")
		require.NoError(t, err)
	}

	movies, err := svc.AdvancedSearchMovies(ctx, SearchQuery{})
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, []string{"Avatar", "Memento", "Zodiac"}, titles(movies))

	movies, err = svc.AdvancedSearchMovies(ctx, SearchQuery{Term: "mem"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Memento"}, titles(movies))

	_, err = svc.AdvancedSearchMovies(ctx, SearchQuery{SortBy: "popularity"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	movies, err = svc.SearchMovies(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Avatar", "Memento", "Zodiac"}, titles(movies))
}

func TestService_GetMovieDetail(t *testing.T) {
	ctx := context.Background()
	svc, repo, actionID := newTestService(t)
	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	viewer := uuid.New()
	_, err = svc.AddRating(ctx, created.ID, viewer, &RatingInput{Rating: 5})
	require.NoError(t, err)
	repo.favourites[created.ID] = map[uuid.UUID]bool{viewer: true}

	anonymous, err := svc.GetMovieDetail(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, anonymous.IsFavourite)
	assert.Nil(t, anonymous.UserRating)

	detail, err := svc.GetMovieDetail(ctx, created.ID, &viewer)
	require.NoError(t, err)
	require.NotNil(t, detail.IsFavourite)
	assert.True(t, *detail.IsFavourite)
	require.NotNil(t, detail.UserRating)
	assert.Equal(t, 5, detail.UserRating.Rating)

	stranger := uuid.New()
	detail, err = svc.GetMovieDetail(ctx, created.ID, &stranger)
	require.NoError(t, err)
	assert.False(t, *detail.IsFavourite)
	assert.Nil(t, detail.UserRating)
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	svc, repo, actionID := newTestService(t)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return fixed }

	old, err := svc.CreateMovie(ctx, validInput(actionID, "Old"), "")
	require.NoError(t, err)
	upcoming := validInput(actionID, "Upcoming")
	upcoming.ReleaseDate = "2030-05-01"
	_, err = svc.CreateMovie(ctx, upcoming, "")
	require.NoError(t, err)
	_, err = repo.IncrementView(ctx, old.ID, uuid.New())
	require.NoError(t, err)

	soon, err := svc.GetSoonReleasingMovies(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Upcoming"}, titles(soon))

	viewed, err := svc.GetMostViewedMovies(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, titles(viewed))

	byGenre, err := svc.GetMoviesByGenre(ctx, actionID)
	require.NoError(t, err)
	assert.Len(t, byGenre, 2)

	_, err = svc.GetMoviesByGenre(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_RecalculateAverageRatings(t *testing.T) {
	ctx := context.Background()
	svc, repo, actionID := newTestService(t)
	created, err := svc.CreateMovie(ctx, validInput(actionID, "Inception"), "")
	require.NoError(t, err)
	_, err = svc.AddRating(ctx, created.ID, uuid.New(), &RatingInput{Rating: 3})
	require.NoError(t, err)

	repo.movies[created.ID].AverageRating = 0
	require.NoError(t, svc.RecalculateAverageRatings(ctx))
	assert.Equal(t, 3.0, repo.movies[created.ID].AverageRating)
}

func TestParseSearchQuery(t *testing.T) {
	genreID := uuid.New()

	testCases := []struct {
		name     string
		query    SearchQuery
		expected SearchParams
		invalid  bool
	}{
		{"empty", SearchQuery{}, SearchParams{}, false},
		{"trims term", SearchQuery{Term: "  dark "}, SearchParams{Term: "dark"}, false},
		{"desc word", SearchQuery{SortBy: "Rating", OrderBy: "DESC"}, SearchParams{SortBy: "rating", Desc: true}, false},
		{"minus one", SearchQuery{SortBy: "views", OrderBy: "-1"}, SearchParams{SortBy: "views", Desc: true}, false},
		{"one", SearchQuery{SortBy: "name", OrderBy: "1"}, SearchParams{SortBy: "name"}, false},
		{"genre", SearchQuery{GenreID: genreID.String()}, SearchParams{GenreID: &genreID}, false},
		{"bad genre", SearchQuery{GenreID: "nope"}, SearchParams{}, true},
		{"bad sort", SearchQuery{SortBy: "budget"}, SearchParams{}, true},
		{"bad order", SearchQuery{OrderBy: "sideways"}, SearchParams{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params, err := ParseSearchQuery(tc.query)
			if tc.invalid {
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, params)
		})
	}
}

func titles(movies []*Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}
