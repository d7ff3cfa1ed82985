package repository

import (
	"context"
	"strings"

	genrePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/genre"
	moviePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormGenreRepository implements the genre.Repository interface with GORM
type gormGenreRepository struct {
	*baseRepository[genrePkg.Genre]
}

// NewGORMGenreRepository creates a new GORM-based genre repository
func NewGORMGenreRepository(db *gorm.DB, log *logger.Logger) genrePkg.Repository {
	return &gormGenreRepository{
		baseRepository: newBaseRepository[genrePkg.Genre](db, "Genre", log.WithComponent("gorm-genre-repository")),
	}
}

// FindByName matches case-insensitively
func (r *gormGenreRepository) FindByName(ctx context.Context, name string) (*genrePkg.Genre, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))},
	})
}

func (r *gormGenreRepository) FindByNameExcludingID(ctx context.Context, name string, id uuid.UUID) (*genrePkg.Genre, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{
			Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))),
			Where("id <> ?", id),
		},
	})
}

func (r *gormGenreRepository) FindAllSorted(ctx context.Context) ([]*genrePkg.Genre, error) {
	return r.Find(ctx, Query{Sort: "name ASC"})
}

func (r *gormGenreRepository) HasMovies(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&moviePkg.Movie{}).Where("genre_id = ?", id).Limit(1).Count(&count).Error
	if err != nil {
		return false, wrapError("Genre", "check movies of", err)
	}
	return count > 0, nil
}
