package user

import (
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/google/uuid"
)

// RegisterRequest represents registration and add-admin requests
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// UpdateProfileRequest is bound from multipart or JSON; empty fields are left unchanged
type UpdateProfileRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

// UserResponse represents user in API responses (without password)
type UserResponse struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthResponse is returned by the login endpoints
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// FavouriteMovieResponse is the movie summary listed in favourites and stats
type FavouriteMovieResponse struct {
	ID            uuid.UUID `json:"_id"`
	Title         string    `json:"title"`
	Genre         *string   `json:"genre"`
	GenreID       uuid.UUID `json:"genreId"`
	ReleaseDate   string    `json:"releaseDate"`
	CoverImage    *string   `json:"coverImage"`
	AverageRating float64   `json:"averageRating"`
	Views         int64     `json:"views"`
	MovieType     string    `json:"movieType"`
	Featured      bool      `json:"featured"`
}

// StatsResponse represents user stats in API responses
type StatsResponse struct {
	RatedCount      int64                   `json:"ratedCount"`
	ViewedCount     int64                   `json:"viewedCount"`
	FavouriteCount  int64                   `json:"favouriteCount"`
	MostViewedMovie *FavouriteMovieResponse `json:"mostViewedMovie"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse(baseURL string) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ProfileImage: utils.FileURL(baseURL, u.ProfileImage),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func ToResponses(users []*User, baseURL string) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse(baseURL))
	}
	return out
}

func (r *AuthResult) ToResponse(baseURL string) *AuthResponse {
	return &AuthResponse{
		Token: r.Token,
		User:  r.User.ToResponse(baseURL),
	}
}

// ToResponse converts the forward-declared Movie to a summary
func (m *Movie) ToResponse(baseURL string) *FavouriteMovieResponse {
	resp := &FavouriteMovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		GenreID:       m.GenreID,
		ReleaseDate:   m.ReleaseDate.Format("2006-01-02"),
		CoverImage:    utils.FileURL(baseURL, m.CoverImage),
		AverageRating: m.AverageRating,
		Views:         m.Views,
		MovieType:     m.MovieType,
		Featured:      m.Featured,
	}
	if m.Genre != nil {
		name := m.Genre.Name
		resp.Genre = &name
	}
	return resp
}

func MovieResponses(movies []*Movie, baseURL string) []*FavouriteMovieResponse {
	out := make([]*FavouriteMovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ToResponse(baseURL))
	}
	return out
}

func (s *Stats) ToResponse(baseURL string) *StatsResponse {
	resp := &StatsResponse{
		RatedCount:     s.RatedCount,
		ViewedCount:    s.ViewedCount,
		FavouriteCount: s.FavouriteCount,
	}
	if s.MostViewedMovie != nil {
		resp.MostViewedMovie = s.MostViewedMovie.ToResponse(baseURL)
	}
	return resp
}
