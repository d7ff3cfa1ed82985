package genre

import (
	"context"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
)

const (
	minNameLength = 2
	maxNameLength = 50
)

// service implements the Service interface
type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new genre service
func NewService(repo Repository, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		logger: log.WithComponent("genre-service"),
	}
}

// ValidateGenreData checks the trimmed name length.
func ValidateGenreData(input *GenreInput) error {
	name := ""
	if input != nil {
		name = strings.TrimSpace(input.Name)
	}

	if name == "" {
		return apperr.Validation("name", "Genre name is required")
	}
	return apperr.NewValidator().
		MinLen("name", name, minNameLength, "Genre name must be at least 2 characters long").
		MaxLen("name", name, maxNameLength, "Genre name cannot exceed 50 characters").
		Err()
}

func (s *service) CreateGenre(ctx context.Context, input *GenreInput, imagePath string) (*Genre, error) {
	if err := ValidateGenreData(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Genre create rejected - name already exists: " + name)
		return nil, apperr.Conflict("Genre with this name already exists")
	}

	genre := &Genre{
		ID:    uuid.New(),
		Name:  name,
		Image: imagePath,
	}
	if err := s.repo.Create(ctx, genre); err != nil {
		s.logger.Error("Failed to create genre " + name + ": " + err.Error())
		return nil, err
	}

	s.logger.Info("Genre created: " + name + " (ID: " + genre.ID.String() + ")")
	return genre, nil
}

func (s *service) UpdateGenre(ctx context.Context, id uuid.UUID, input *GenreInput, imagePath string) (*Genre, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Genre", id.String())
	}

	if err := ValidateGenreData(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	duplicate, err := s.repo.FindByNameExcludingID(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if duplicate != nil {
		return nil, apperr.Conflict("Genre with this name already exists")
	}

	updates := map[string]any{"name": name}
	if imagePath != "" {
		updates["image"] = imagePath
	}

	updated, err := s.repo.UpdateByID(ctx, id, updates)
	if err != nil {
		s.logger.Error("Failed to update genre " + id.String() + ": " + err.Error())
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("Genre", id.String())
	}

	s.logger.Info("Genre updated: " + id.String())
	return updated, nil
}

func (s *service) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperr.NotFound("Genre", id.String())
	}

	inUse, err := s.repo.HasMovies(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("Genre is assigned to one or more movies and cannot be deleted")
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete genre " + id.String() + ": " + err.Error())
		return err
	}
	if deleted == nil {
		return apperr.NotFound("Genre", id.String())
	}

	s.logger.Info("Genre deleted: " + id.String())
	return nil
}

func (s *service) GetGenres(ctx context.Context) ([]*Genre, error) {
	return s.repo.FindAllSorted(ctx)
}

func (s *service) GetGenreByID(ctx context.Context, id uuid.UUID) (*Genre, error) {
	genre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, apperr.NotFound("Genre", id.String())
	}
	return genre, nil
}
