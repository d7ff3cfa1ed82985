package movie

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/google/uuid"
)

// Text binds a form value or any JSON scalar or array as its raw text, so
// runtime may arrive as 100 or "100" and cast as an array or a serialized one.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// MovieInput is bound from multipart forms or JSON. Every field is text so the
// validator can report bad numbers and dates as field errors; Cast is a JSON array.
type MovieInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	ReleaseDate string `form:"releaseDate" json:"releaseDate"`
	Genre       string `form:"genre" json:"genre"`
	Runtime     Text   `form:"runtime" json:"runtime"`
	TrailerLink string `form:"trailerLink" json:"trailerLink"`
	MovieLink   string `form:"movieLink" json:"movieLink"`
	MovieType   string `form:"movieType" json:"movieType"`
	Cast        Text   `form:"cast" json:"cast"`
	Featured    Text   `form:"featured" json:"featured"`
}

// CastInput is one entry of the serialized cast array
type CastInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RatingInput is the body of POST /movies/:id/rate
type RatingInput struct {
	Rating int    `json:"rating" form:"rating"`
	Review string `json:"review" form:"review"`
}

// SearchQuery carries the raw search query parameters
type SearchQuery struct {
	Term    string `form:"query"`
	GenreID string `form:"genreId"`
	SortBy  string `form:"sortBy"`
	OrderBy string `form:"orderBy"`
}

// CastResponse represents a cast entry in API responses
type CastResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MovieResponse represents movie in API responses; genre collapses to its name
type MovieResponse struct {
	ID            uuid.UUID      `json:"_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ReleaseDate   string         `json:"releaseDate"`
	Genre         *string        `json:"genre"`
	GenreID       uuid.UUID      `json:"genreId"`
	Runtime       int            `json:"runtime"`
	TrailerLink   string         `json:"trailerLink,omitempty"`
	MovieLink     string         `json:"movieLink,omitempty"`
	CoverImage    *string        `json:"coverImage"`
	AverageRating float64        `json:"averageRating"`
	Views         int64          `json:"views"`
	MovieType     string         `json:"movieType"`
	Featured      bool           `json:"featured"`
	Cast          []CastResponse `json:"cast"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// RatingUserResponse is the resolved author of a rating
type RatingUserResponse struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profileImage"`
}

// RatingResponse represents rating in API responses
type RatingResponse struct {
	User      *RatingUserResponse `json:"user"`
	Rating    int                 `json:"rating"`
	Review    string              `json:"review"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// DetailResponse is a movie with ratings and viewer specific fields
type DetailResponse struct {
	*MovieResponse
	Ratings     []RatingResponse `json:"ratings"`
	RatingCount int              `json:"ratingCount"`
	IsFavourite *bool            `json:"isFavourite,omitempty"`
	UserRating  *RatingResponse  `json:"userRating,omitempty"`
}

const releaseDateLayout = "2006-01-02"

// ToResponse converts Movie to MovieResponse with absolute file URLs
func (m *Movie) ToResponse(baseURL string) *MovieResponse {
	resp := &MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		ReleaseDate:   m.ReleaseDate.Format(releaseDateLayout),
		GenreID:       m.GenreID,
		Runtime:       m.Runtime,
		TrailerLink:   m.TrailerLink,
		MovieLink:     m.MovieLink,
		CoverImage:    utils.FileURL(baseURL, m.CoverImage),
		AverageRating: m.AverageRating,
		Views:         m.Views,
		MovieType:     m.MovieType,
		Featured:      m.Featured,
		Cast:          make([]CastResponse, 0, len(m.Cast)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Genre != nil {
		name := m.Genre.Name
		resp.Genre = &name
	}
	for _, c := range m.Cast {
		resp.Cast = append(resp.Cast, CastResponse{Name: c.Name, Type: c.Type})
	}
	return resp
}

// ToResponses formats a list of movies
func ToResponses(movies []*Movie, baseURL string) []*MovieResponse {
	out := make([]*MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ToResponse(baseURL))
	}
	return out
}

// ToResponse converts Rating to RatingResponse
func (r *Rating) ToResponse(baseURL string) RatingResponse {
	resp := RatingResponse{
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		resp.User = &RatingUserResponse{
			ID:           r.User.ID,
			Name:         r.User.Name,
			ProfileImage: utils.FileURL(baseURL, r.User.ProfileImage),
		}
	} else {
		resp.User = &RatingUserResponse{ID: r.UserID}
	}
	return resp
}

// ToResponse converts Detail to DetailResponse
func (d *Detail) ToResponse(baseURL string) *DetailResponse {
	resp := &DetailResponse{
		MovieResponse: d.Movie.ToResponse(baseURL),
		Ratings:       make([]RatingResponse, 0, len(d.Movie.Ratings)),
		RatingCount:   len(d.Movie.Ratings),
		IsFavourite:   d.IsFavourite,
	}
	for i := range d.Movie.Ratings {
		resp.Ratings = append(resp.Ratings, d.Movie.Ratings[i].ToResponse(baseURL))
	}
	if d.UserRating != nil {
		rating := d.UserRating.ToResponse(baseURL)
		resp.UserRating = &rating
	}
	return resp
}
