package genre

import (
	"context"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/google/uuid"
)

// Genre is a movie category with a unique name
type Genre struct {
	ID        uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Image     string    `json:"image" gorm:"size:512"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Repository defines the interface for genre data access.
// Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, genre *Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*Genre, error)
	FindByName(ctx context.Context, name string) (*Genre, error)
	FindByNameExcludingID(ctx context.Context, name string, id uuid.UUID) (*Genre, error)
	FindAllSorted(ctx context.Context) ([]*Genre, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]any) (*Genre, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Genre, error)
	HasMovies(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service defines the interface for genre business logic
type Service interface {
	CreateGenre(ctx context.Context, input *GenreInput, imagePath string) (*Genre, error)
	UpdateGenre(ctx context.Context, id uuid.UUID, input *GenreInput, imagePath string) (*Genre, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) error
	GetGenres(ctx context.Context) ([]*Genre, error)
	GetGenreByID(ctx context.Context, id uuid.UUID) (*Genre, error)
}

// GenreInput is bound from multipart or JSON bodies
type GenreInput struct {
	Name string `form:"name" json:"name"`
}

// GenreResponse represents genre in API responses
type GenreResponse struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse converts Genre to GenreResponse with an absolute image URL
func (g *Genre) ToResponse(baseURL string) *GenreResponse {
	return &GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		Image:     utils.FileURL(baseURL, g.Image),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func ToResponses(genres []*Genre, baseURL string) []*GenreResponse {
	out := make([]*GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.ToResponse(baseURL))
	}
	return out
}

// TableName returns the table name for GORM
func (Genre) TableName() string {
	return "genres"
}
