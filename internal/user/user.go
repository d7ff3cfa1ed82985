package user

import (
	"context"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/google/uuid"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Roles lists every assignable role
var Roles = []string{RoleUser, RoleAdmin}

// User represents an account; email is stored lower-cased
type User struct {
	ID           uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `json:"-" gorm:"not null;size:255"`
	Role         string    `json:"role" gorm:"size:10;not null;default:'user';index"`
	ProfileImage string    `json:"profileImage" gorm:"size:512"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations - will be loaded explicitly when needed
	Favourites []Favourite `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Favourite marks a movie as one of the user's favourites
type Favourite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Movie *Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// Movie represents the movie entity (forward declaration for association)
type Movie struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title         string
	ReleaseDate   time.Time
	GenreID       uuid.UUID `gorm:"type:uuid"`
	CoverImage    string
	AverageRating float64
	Views         int64
	MovieType     string
	Featured      bool

	Genre *Genre `gorm:"foreignKey:GenreID"`
}

// Genre represents the genre entity (forward declaration for association)
type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

// Stats summarizes a user's activity
type Stats struct {
	RatedCount      int64
	ViewedCount     int64
	FavouriteCount  int64
	MostViewedMovie *Movie
}

// Repository defines the interface for user data access.
// Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailExcludingID(ctx context.Context, email string, id uuid.UUID) (*User, error)
	FindByRole(ctx context.Context, role string) ([]*User, error)
	FindPage(ctx context.Context, offset, limit int) ([]*User, int64, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]any) (*User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*User, error)

	GetUserWithFavorites(ctx context.Context, id uuid.UUID) (*User, error)
	AddToFavorites(ctx context.Context, userID, movieID uuid.UUID) error
	RemoveFromFavorites(ctx context.Context, userID, movieID uuid.UUID) error
	IsFavorite(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	GetUserStats(ctx context.Context, id uuid.UUID) (*Stats, error)
}

// MovieLookup confirms a movie exists before it is favourited
type MovieLookup interface {
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service defines the interface for auth and user business logic
type Service interface {
	RegisterUser(ctx context.Context, req *RegisterRequest) (*User, error)
	LoginUser(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	LoginAdmin(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest, imagePath string) (*User, error)

	GetFavorites(ctx context.Context, userID uuid.UUID) ([]*Movie, error)
	AddToFavorites(ctx context.Context, userID, movieID uuid.UUID) error
	RemoveFromFavorites(ctx context.Context, userID, movieID uuid.UUID) error
	ToggleFavorite(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*Stats, error)

	ListAdmins(ctx context.Context) ([]*User, error)
	AddAdmin(ctx context.Context, req *RegisterRequest) (*User, error)
	UpdateAdmin(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*User, error)
	DeleteAdmin(ctx context.Context, actorID, id uuid.UUID) error
	ListUsers(ctx context.Context, page, limit int) ([]*User, int64, error)
	EnsureAdmin(ctx context.Context, cfg *config.AdminConfig) error
}

// AuthResult is a signed token with the account it was issued for
type AuthResult struct {
	Token string
	User  *User
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

func (Favourite) TableName() string {
	return "user_favourites"
}

func (Movie) TableName() string {
	return "movies"
}

func (Genre) TableName() string {
	return "genres"
}
