package movie

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Movie type constants
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

// Types lists the accepted movieType values
var Types = []string{TypeMovie, TypeSeries}

// Movie represents a catalog entry with its cast, ratings and unique viewers
type Movie struct {
	ID            uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string    `json:"title" gorm:"size:255;not null;index"`
	Description   string    `json:"description" gorm:"type:text;not null"`
	ReleaseDate   time.Time `json:"releaseDate" gorm:"type:date;not null;index"`
	GenreID       uuid.UUID `json:"genreId" gorm:"type:uuid;not null;index"`
	Runtime       int       `json:"runtime" gorm:"not null"`
	TrailerLink   string    `json:"trailerLink" gorm:"size:2048"`
	MovieLink     string    `json:"movieLink" gorm:"size:2048"`
	CoverImage    string    `json:"coverImage" gorm:"size:512"`
	AverageRating float64   `json:"averageRating" gorm:"not null;default:0;index"`
	Views         int64     `json:"views" gorm:"not null;default:0;index"`
	MovieType     string    `json:"movieType" gorm:"size:10;not null;default:'movie'"`
	Featured      bool      `json:"featured" gorm:"not null;default:false;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	Genre    *Genre       `json:"genre,omitempty" gorm:"foreignKey:GenreID;constraint:OnDelete:RESTRICT"`
	Cast     []CastMember `json:"cast,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Ratings  []Rating     `json:"ratings,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	ViewedBy []View       `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// CastMember is one ordered {name, type} entry of a movie's cast
type CastMember struct {
	ID       uuid.UUID `json:"-" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MovieID  uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	Position int       `json:"-" gorm:"not null;default:0"`
	Name     string    `json:"name" gorm:"size:255;not null"`
	Type     string    `json:"type" gorm:"size:100;not null"`
}

// Rating is a user's single score for a movie; a repeat submission overwrites it
type Rating struct {
	MovieID   uuid.UUID `json:"movieId" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey;index"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_movie_ratings_range,rating >= 1 AND rating <= 5"`
	Review    string    `json:"review" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// View records that a user has viewed a movie at least once
type View struct {
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Genre represents genre for foreign key relationship (forward declaration)
type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

// User represents user for foreign key relationship (forward declaration)
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	ProfileImage string
}

// Filter narrows FindWithGenre; nil fields are ignored
type Filter struct {
	GenreID  *uuid.UUID
	Featured *bool
}

// SearchParams is the normalized input of an advanced search
type SearchParams struct {
	Term    string
	GenreID *uuid.UUID
	SortBy  string
	Desc    bool
}

// Repository defines the interface for movie data access.
// Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	FindWithGenre(ctx context.Context, filter Filter) ([]*Movie, error)
	FindByIDWithGenreAndRatings(ctx context.Context, id uuid.UUID) (*Movie, error)
	FindByGenre(ctx context.Context, genreID uuid.UUID) ([]*Movie, error)
	FindFeaturedMovies(ctx context.Context) ([]*Movie, error)
	SearchMovies(ctx context.Context, term string) ([]*Movie, error)
	AdvancedSearchMovies(ctx context.Context, params SearchParams) ([]*Movie, error)
	Update(ctx context.Context, movie *Movie, withFeatured bool) error
	DeleteByID(ctx context.Context, id uuid.UUID) (*Movie, error)

	// Aggregate mutations, each atomic
	UpsertRating(ctx context.Context, movieID, userID uuid.UUID, rating int, review string) error
	IncrementView(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	UpdateAverageRating(ctx context.Context, id uuid.UUID) error
	RecalculateAverageRatings(ctx context.Context) (int64, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (*Movie, error)

	// Sorted, limited lists
	FindRecentMovies(ctx context.Context, limit int) ([]*Movie, error)
	FindTopRatedMovies(ctx context.Context, limit int) ([]*Movie, error)
	FindMostViewedMovies(ctx context.Context, limit int) ([]*Movie, error)
	FindSoonReleasingMovies(ctx context.Context, now time.Time, limit int) ([]*Movie, error)

	// Viewer specific
	FindUserRating(ctx context.Context, movieID, userID uuid.UUID) (*Rating, error)
	IsFavouritedBy(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
}

// GenreLookup confirms a referenced genre exists
type GenreLookup interface {
	GenreExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service defines the interface for movie business logic
type Service interface {
	CreateMovie(ctx context.Context, input *MovieInput, coverImagePath string) (*Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, input *MovieInput, coverImagePath string) (*Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	GetMovies(ctx context.Context, genreID *uuid.UUID) ([]*Movie, error)
	GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetMovieDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Detail, error)
	GetMoviesByGenre(ctx context.Context, genreID uuid.UUID) ([]*Movie, error)
	GetFeaturedMovies(ctx context.Context) ([]*Movie, error)
	GetRecentMovies(ctx context.Context, limit int) ([]*Movie, error)
	GetTopRatedMovies(ctx context.Context, limit int) ([]*Movie, error)
	GetMostViewedMovies(ctx context.Context, limit int) ([]*Movie, error)
	GetSoonReleasingMovies(ctx context.Context, limit int) ([]*Movie, error)
	SearchMovies(ctx context.Context, term string) ([]*Movie, error)
	AdvancedSearchMovies(ctx context.Context, query SearchQuery) ([]*Movie, error)
	AddRating(ctx context.Context, movieID, userID uuid.UUID, input *RatingInput) (*Movie, error)
	IncrementMovieView(ctx context.Context, movieID, userID uuid.UUID) (*Movie, error)
	ToggleFeaturedStatus(ctx context.Context, id uuid.UUID) (*Movie, error)
	RecalculateAverageRatings(ctx context.Context) error
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Detail is a movie with its ratings plus what the current viewer did with it
type Detail struct {
	Movie       *Movie
	IsFavourite *bool
	UserRating  *Rating
}

// TableName returns the table name for GORM
func (Movie) TableName() string {
	return "movies"
}

func (CastMember) TableName() string {
	return "movie_cast"
}

func (Rating) TableName() string {
	return "movie_ratings"
}

func (View) TableName() string {
	return "movie_views"
}

func (Genre) TableName() string {
	return "genres"
}

func (User) TableName() string {
	return "users"
}
