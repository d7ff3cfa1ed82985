package repository

import (
	"context"
	"errors"
	"strings"

	moviePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	userPkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/user"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormUserRepository implements the user.Repository interface with GORM
type gormUserRepository struct {
	*baseRepository[userPkg.User]
}

// NewGORMUserRepository creates a new GORM-based user repository
func NewGORMUserRepository(db *gorm.DB, log *logger.Logger) userPkg.Repository {
	return &gormUserRepository{
		baseRepository: newBaseRepository[userPkg.User](db, "User", log.WithComponent("gorm-user-repository")),
	}
}

func (r *gormUserRepository) Create(ctx context.Context, user *userPkg.User) error {
	r.logger.Info("Creating user " + user.ID.String() + " with email " + user.Email)

	if err := r.db.WithContext(ctx).Omit("Favourites").Create(user).Error; err != nil {
		r.logger.Error("Failed to create user " + user.ID.String() + " with email " + user.Email + ": " + err.Error())
		return wrapError("User", "create", err)
	}

	r.logger.Info("User created successfully: " + user.ID.String() + " with email " + user.Email)
	return nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*userPkg.User, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{Where("email = ?", strings.ToLower(strings.TrimSpace(email)))},
	})
}

func (r *gormUserRepository) FindByEmailExcludingID(ctx context.Context, email string, id uuid.UUID) (*userPkg.User, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{
			Where("email = ?", strings.ToLower(strings.TrimSpace(email))),
			Where("id <> ?", id),
		},
	})
}

func (r *gormUserRepository) FindByRole(ctx context.Context, role string) ([]*userPkg.User, error) {
	return r.Find(ctx, Query{
		Filters: []Filter{Where("role = ?", role)},
		Sort:    "created_at DESC",
	})
}

func (r *gormUserRepository) FindPage(ctx context.Context, offset, limit int) ([]*userPkg.User, int64, error) {
	total, err := r.Count(ctx, Query{})
	if err != nil {
		return nil, 0, err
	}

	users, err := r.Find(ctx, Query{Sort: "created_at DESC", Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DeleteByID removes the user with their ratings, views and favourites, and
// recomputes the average of every movie they had rated
func (r *gormUserRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*userPkg.User, error) {
	var deleted *userPkg.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user userPkg.User
		if err := tx.Where("id = ?", id).Take(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var rated []uuid.UUID
		if err := tx.Model(&moviePkg.Rating{}).Where("user_id = ?", id).Pluck("movie_id", &rated).Error; err != nil {
			return err
		}

		if err := tx.Select(clause.Associations).Delete(&user).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&moviePkg.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&moviePkg.View{}).Error; err != nil {
			return err
		}
		if err := updateAverage(tx, rated...); err != nil {
			return err
		}

		deleted = &user
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete user " + id.String() + ": " + err.Error())
		return nil, wrapError("User", "delete", err)
	}
	if deleted != nil {
		r.logger.Info("User deleted: " + deleted.Email)
	}
	return deleted, nil
}

// GetUserWithFavorites loads the favourite movies, most recent first, with their genre
func (r *gormUserRepository) GetUserWithFavorites(ctx context.Context, id uuid.UUID) (*userPkg.User, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{Where("id = ?", id)},
		Scopes: []func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
			return db.Preload("Favourites", func(db *gorm.DB) *gorm.DB {
				return db.Order("user_favourites.created_at DESC")
			}).Preload("Favourites.Movie.Genre")
		}},
	})
}

// AddToFavorites is idempotent
func (r *gormUserRepository) AddToFavorites(ctx context.Context, userID, movieID uuid.UUID) error {
	err := r.db.WithContext(ctx).Omit("Movie").Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userPkg.Favourite{UserID: userID, MovieID: movieID}).Error
	if err != nil {
		r.logger.Error("Failed to add favourite " + movieID.String() + " for user " + userID.String() + ": " + err.Error())
		return wrapError("Favourite", "add", err)
	}
	return nil
}

// RemoveFromFavorites is idempotent
func (r *gormUserRepository) RemoveFromFavorites(ctx context.Context, userID, movieID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&userPkg.Favourite{}).Error
	if err != nil {
		r.logger.Error("Failed to remove favourite " + movieID.String() + " for user " + userID.String() + ": " + err.Error())
		return wrapError("Favourite", "remove", err)
	}
	return nil
}

func (r *gormUserRepository) IsFavorite(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userPkg.Favourite{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	if err != nil {
		return false, wrapError("Favourite", "find", err)
	}
	return count > 0, nil
}

// GetUserStats counts the user's ratings, views and favourites and picks the
// most viewed movie among those the user viewed
func (r *gormUserRepository) GetUserStats(ctx context.Context, id uuid.UUID) (*userPkg.Stats, error) {
	db := r.db.WithContext(ctx)
	stats := &userPkg.Stats{}

	if err := db.Model(&moviePkg.Rating{}).Where("user_id = ?", id).Count(&stats.RatedCount).Error; err != nil {
		return nil, wrapError("User", "count ratings of", err)
	}
	if err := db.Model(&moviePkg.View{}).Where("user_id = ?", id).Count(&stats.ViewedCount).Error; err != nil {
		return nil, wrapError("User", "count views of", err)
	}
	if err := db.Model(&userPkg.Favourite{}).Where("user_id = ?", id).Count(&stats.FavouriteCount).Error; err != nil {
		return nil, wrapError("User", "count favourites of", err)
	}

	var top userPkg.Movie
	err := db.Model(&userPkg.Movie{}).Preload("Genre").
		Joins("JOIN movie_views v ON v.movie_id = movies.id").
		Where("v.user_id = ?", id).
		Order("movies.views DESC, movies.title ASC").
		Take(&top).Error
	switch {
	case err == nil:
		stats.MostViewedMovie = &top
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, wrapError("User", "find most viewed movie of", err)
	}

	return stats, nil
}
