package adapter

import (
	"context"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/genre"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/user"
	"github.com/google/uuid"
)

// GenreServiceToMovieGenreLookup adapts genre.Service to movie.GenreLookup
type GenreServiceToMovieGenreLookup struct {
	service genre.Service
}

// NewGenreServiceToMovieGenreLookup creates a new adapter
func NewGenreServiceToMovieGenreLookup(s genre.Service) movie.GenreLookup {
	return &GenreServiceToMovieGenreLookup{
		service: s,
	}
}

func (a *GenreServiceToMovieGenreLookup) GenreExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := a.service.GetGenreByID(ctx, id); err != nil {
		// A missing genre is an answer, not a failure
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MovieServiceToUserMovieLookup adapts movie.Service to user.MovieLookup
type MovieServiceToUserMovieLookup struct {
	service movie.Service
}

// NewMovieServiceToUserMovieLookup creates a new adapter
func NewMovieServiceToUserMovieLookup(s movie.Service) user.MovieLookup {
	return &MovieServiceToUserMovieLookup{
		service: s,
	}
}

func (a *MovieServiceToUserMovieLookup) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return a.service.MovieExists(ctx, id)
}
