// Package general serves the admin dashboard summary and the static lookup lists.
package general

import "context"

// Summary holds catalog-wide totals
type Summary struct {
	TotalMovies    int64 `json:"totalMovies"`
	TotalGenres    int64 `json:"totalGenres"`
	TotalUsers     int64 `json:"totalUsers"`
	TotalAdmins    int64 `json:"totalAdmins"`
	FeaturedMovies int64 `json:"featuredMovies"`
	TotalRatings   int64 `json:"totalRatings"`
	TotalViews     int64 `json:"totalViews"`
}

// Option is a value/label pair for frontend select inputs
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Repository defines the interface for aggregate queries
type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
}

// Service defines the interface for general business logic
type Service interface {
	GetSummary(ctx context.Context) (*Summary, error)
	MovieTypes() []Option
	Roles() []Option
}
