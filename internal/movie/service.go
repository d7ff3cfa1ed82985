package movie

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
)

// DefaultListLimit applies to the short recent/top/soon lists
const DefaultListLimit = 10

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// SortKeys are the accepted sortBy values of an advanced search
var SortKeys = []string{"rating", "views", "name", "releasedate", "featured"}

// service implements the Service interface
type service struct {
	repo   Repository
	genres GenreLookup
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new movie service
func NewService(repo Repository, genres GenreLookup, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		genres: genres,
		logger: log.WithComponent("movie-service"),
		now:    time.Now,
	}
}

func (s *service) CreateMovie(ctx context.Context, input *MovieInput, coverImagePath string) (*Movie, error) {
	movie, err := ValidateMovieData(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureGenre(ctx, movie.GenreID); err != nil {
		return nil, err
	}

	movie.ID = uuid.New()
	movie.CoverImage = coverImagePath
	if err := s.repo.Create(ctx, movie); err != nil {
		s.logger.Error("Failed to create movie " + movie.Title + ": " + err.Error())
		return nil, err
	}

	s.logger.Info("Movie created: " + movie.Title + " (ID: " + movie.ID.String() + ")")
	return s.GetMovieByID(ctx, movie.ID)
}

func (s *service) UpdateMovie(ctx context.Context, id uuid.UUID, input *MovieInput, coverImagePath string) (*Movie, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Movie", id.String())
	}

	changes, err := ValidateMovieData(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureGenre(ctx, changes.GenreID); err != nil {
		return nil, err
	}

	current.Title = changes.Title
	current.Description = changes.Description
	current.ReleaseDate = changes.ReleaseDate
	current.GenreID = changes.GenreID
	current.Genre = nil
	current.Runtime = changes.Runtime
	current.TrailerLink = changes.TrailerLink
	current.MovieLink = changes.MovieLink
	current.MovieType = changes.MovieType
	current.Cast = changes.Cast
	withFeatured := strings.TrimSpace(input.Featured.String()) != ""
	if withFeatured {
		current.Featured = changes.Featured
	}
	if coverImagePath != "" {
		current.CoverImage = coverImagePath
	}

	if err := s.repo.Update(ctx, current, withFeatured); err != nil {
		s.logger.Error("Failed to update movie " + id.String() + ": " + err.Error())
		return nil, err
	}

	s.logger.Info("Movie updated: " + id.String())
	return s.GetMovieByID(ctx, id)
}

func (s *service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete movie " + id.String() + ": " + err.Error())
		return err
	}
	if deleted == nil {
		return apperr.NotFound("Movie", id.String())
	}

	s.logger.Info("Movie deleted: " + deleted.Title + " (ID: " + id.String() + ")")
	return nil
}

func (s *service) GetMovies(ctx context.Context, genreID *uuid.UUID) ([]*Movie, error) {
	return s.repo.FindWithGenre(ctx, Filter{GenreID: genreID})
}

func (s *service) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	movie, err := s.repo.FindByIDWithGenreAndRatings(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperr.NotFound("Movie", id.String())
	}
	return movie, nil
}

// GetMovieDetail adds the viewer's favourite flag and rating when viewerID is set
func (s *service) GetMovieDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Detail, error) {
	movie, err := s.GetMovieByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Movie: movie}
	if viewerID == nil {
		return detail, nil
	}

	favourite, err := s.repo.IsFavouritedBy(ctx, id, *viewerID)
	if err != nil {
		return nil, err
	}
	detail.IsFavourite = &favourite

	for i := range movie.Ratings {
		if movie.Ratings[i].UserID == *viewerID {
			detail.UserRating = &movie.Ratings[i]
			return detail, nil
		}
	}

	rating, err := s.repo.FindUserRating(ctx, id, *viewerID)
	if err != nil {
		return nil, err
	}
	detail.UserRating = rating
	return detail, nil
}

func (s *service) GetMoviesByGenre(ctx context.Context, genreID uuid.UUID) ([]*Movie, error) {
	if err := s.ensureGenre(ctx, genreID); err != nil {
		return nil, err
	}
	return s.repo.FindByGenre(ctx, genreID)
}

func (s *service) GetFeaturedMovies(ctx context.Context) ([]*Movie, error) {
	return s.repo.FindFeaturedMovies(ctx)
}

func (s *service) GetRecentMovies(ctx context.Context, limit int) ([]*Movie, error) {
	return s.repo.FindRecentMovies(ctx, listLimit(limit))
}

func (s *service) GetTopRatedMovies(ctx context.Context, limit int) ([]*Movie, error) {
	return s.repo.FindTopRatedMovies(ctx, listLimit(limit))
}

func (s *service) GetMostViewedMovies(ctx context.Context, limit int) ([]*Movie, error) {
	return s.repo.FindMostViewedMovies(ctx, listLimit(limit))
}

func (s *service) GetSoonReleasingMovies(ctx context.Context, limit int) ([]*Movie, error) {
	return s.repo.FindSoonReleasingMovies(ctx, s.now(), listLimit(limit))
}

func (s *service) SearchMovies(ctx context.Context, term string) ([]*Movie, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.AdvancedSearchMovies(ctx, SearchParams{})
	}
	return s.repo.SearchMovies(ctx, term)
}

// AdvancedSearchMovies validates the raw query; empty sortBy sorts by title ascending
func (s *service) AdvancedSearchMovies(ctx context.Context, query SearchQuery) ([]*Movie, error) {
	params, err := ParseSearchQuery(query)
	if err != nil {
		return nil, err
	}
	return s.repo.AdvancedSearchMovies(ctx, params)
}

// ParseSearchQuery normalizes sortBy and orderBy, rejecting unknown values
func ParseSearchQuery(query SearchQuery) (SearchParams, error) {
	params := SearchParams{Term: strings.TrimSpace(query.Term)}
	v := apperr.NewValidator()

	if genre := strings.TrimSpace(query.GenreID); genre != "" {
		id, err := uuid.Parse(genre)
		if err != nil {
			v.Add("genreId", "Invalid genre id")
		} else {
			params.GenreID = &id
		}
	}

	if sortBy := strings.ToLower(strings.TrimSpace(query.SortBy)); sortBy != "" {
		v.OneOf("sortBy", sortBy, SortKeys...)
		params.SortBy = sortBy
	}

	switch strings.ToLower(strings.TrimSpace(query.OrderBy)) {
	case "", "asc", "1":
	case "desc", "-1":
		params.Desc = true
	default:
		v.Add("orderBy", "orderBy must be one of: asc, desc, 1, -1")
	}

	if err := v.Err(); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}

// AddRating inserts or overwrites the user's rating and recomputes the average
func (s *service) AddRating(ctx context.Context, movieID, userID uuid.UUID, input *RatingInput) (*Movie, error) {
	if input == nil {
		return nil, apperr.Validation("rating", "Rating is required")
	}
	err := apperr.NewValidator().
		Range("rating", input.Rating, MinRating, MaxRating, fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)).
		Err()
	if err != nil {
		return nil, err
	}

	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertRating(ctx, movieID, userID, input.Rating, strings.TrimSpace(input.Review)); err != nil {
		s.logger.Error("Failed to rate movie " + movieID.String() + ": " + err.Error())
		return nil, err
	}

	s.logger.Info("Movie " + movieID.String() + " rated by user " + userID.String())
	return s.GetMovieByID(ctx, movieID)
}

// IncrementMovieView counts the first view of each user only
func (s *service) IncrementMovieView(ctx context.Context, movieID, userID uuid.UUID) (*Movie, error) {
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	added, err := s.repo.IncrementView(ctx, movieID, userID)
	if err != nil {
		return nil, err
	}
	if added {
		s.logger.Debug("New view of movie " + movieID.String() + " by user " + userID.String())
	}

	return s.GetMovieByID(ctx, movieID)
}

func (s *service) ToggleFeaturedStatus(ctx context.Context, id uuid.UUID) (*Movie, error) {
	movie, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperr.NotFound("Movie", id.String())
	}

	s.logger.Info(fmt.Sprintf("Movie %s featured set to %t", id, movie.Featured))
	return movie, nil
}

// RecalculateAverageRatings repairs every stored average from the ratings table
func (s *service) RecalculateAverageRatings(ctx context.Context) error {
	updated, err := s.repo.RecalculateAverageRatings(ctx)
	if err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("Recalculated average rating of %d movies", updated))
	return nil
}

func (s *service) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return movie != nil, nil
}

func (s *service) ensureMovie(ctx context.Context, id uuid.UUID) error {
	exists, err := s.MovieExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Movie", id.String())
	}
	return nil
}

func (s *service) ensureGenre(ctx context.Context, id uuid.UUID) error {
	exists, err := s.genres.GenreExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Genre", id.String())
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
