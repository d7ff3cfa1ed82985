package repository

import (
	"context"

	generalPkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/general"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"gorm.io/gorm"
)

// gormGeneralRepository implements the general.Repository interface with GORM
type gormGeneralRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMGeneralRepository creates a new GORM-based aggregate repository
func NewGORMGeneralRepository(db *gorm.DB, log *logger.Logger) generalPkg.Repository {
	return &gormGeneralRepository{
		db:     db,
		logger: log.WithComponent("gorm-general-repository"),
	}
}

// Summary gathers every total in a single round trip
func (r *gormGeneralRepository) Summary(ctx context.Context) (*generalPkg.Summary, error) {
	var summary generalPkg.Summary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM movies) AS total_movies,
			(SELECT COUNT(*) FROM genres) AS total_genres,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE role = ?) AS total_admins,
			(SELECT COUNT(*) FROM movies WHERE featured) AS featured_movies,
			(SELECT COUNT(*) FROM movie_ratings) AS total_ratings,
			(SELECT COALESCE(SUM(views), 0) FROM movies) AS total_views
	`, "admin").Scan(&summary).Error
	if err != nil {
		r.logger.Error("Failed to build summary: " + err.Error())
		return nil, wrapError("Summary", "build", err)
	}

	return &summary, nil
}
