package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	moviePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// movieSortColumns maps advanced-search sort keys to columns
var movieSortColumns = map[string]string{
	"rating":      "average_rating",
	"views":       "views",
	"name":        "title",
	"releasedate": "release_date",
	"featured":    "featured",
}

const defaultMovieSort = "title ASC"

const averageRatingSubquery = "COALESCE((SELECT AVG(r.rating)::float8 FROM movie_ratings r WHERE r.movie_id = movies.id), 0)"

// gormMovieRepository implements the movie.Repository interface with GORM
type gormMovieRepository struct {
	*baseRepository[moviePkg.Movie]
}

// NewGORMMovieRepository creates a new GORM-based movie repository
func NewGORMMovieRepository(db *gorm.DB, log *logger.Logger) moviePkg.Repository {
	return &gormMovieRepository{
		baseRepository: newBaseRepository[moviePkg.Movie](db, "Movie", log.WithComponent("gorm-movie-repository")),
	}
}

// withGenreAndCast resolves the genre and loads the cast in order
func withGenreAndCast(db *gorm.DB) *gorm.DB {
	return db.Preload("Genre").Preload("Cast", func(db *gorm.DB) *gorm.DB {
		return db.Order("movie_cast.position ASC")
	})
}

// withRatings loads ratings, newest first, with their authors
func withRatings(db *gorm.DB) *gorm.DB {
	return db.Preload("Ratings", func(db *gorm.DB) *gorm.DB {
		return db.Order("movie_ratings.updated_at DESC")
	}).Preload("Ratings.User")
}

func prepareCast(movie *moviePkg.Movie) {
	for i := range movie.Cast {
		if movie.Cast[i].ID == uuid.Nil {
			movie.Cast[i].ID = uuid.New()
		}
		movie.Cast[i].MovieID = movie.ID
		movie.Cast[i].Position = i
	}
}

// Create inserts the movie and its cast
func (r *gormMovieRepository) Create(ctx context.Context, movie *moviePkg.Movie) error {
	if movie.ID == uuid.Nil {
		movie.ID = uuid.New()
	}
	prepareCast(movie)

	r.logger.Info("Creating movie " + movie.ID.String() + ": " + movie.Title)

	if err := r.db.WithContext(ctx).Omit("Genre", "Ratings", "ViewedBy").Create(movie).Error; err != nil {
		r.logger.Error("Failed to create movie " + movie.Title + ": " + err.Error())
		return wrapError("Movie", "create", err)
	}
	return nil
}

// Update writes the editable columns and replaces the cast. Counters and the
// average are left alone so concurrent views and ratings are not overwritten;
// featured is written only when withFeatured is set.
func (r *gormMovieRepository) Update(ctx context.Context, movie *moviePkg.Movie, withFeatured bool) error {
	prepareCast(movie)

	columns := map[string]any{
		"title":        movie.Title,
		"description":  movie.Description,
		"release_date": movie.ReleaseDate,
		"genre_id":     movie.GenreID,
		"runtime":      movie.Runtime,
		"trailer_link": movie.TrailerLink,
		"movie_link":   movie.MovieLink,
		"cover_image":  movie.CoverImage,
		"movie_type":   movie.MovieType,
	}
	if withFeatured {
		columns["featured"] = movie.Featured
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&moviePkg.Movie{}).Where("id = ?", movie.ID).Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("Movie", movie.ID.String())
		}

		if err := tx.Where("movie_id = ?", movie.ID).Delete(&moviePkg.CastMember{}).Error; err != nil {
			return err
		}
		if len(movie.Cast) > 0 {
			return tx.Create(&movie.Cast).Error
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to update movie " + movie.ID.String() + ": " + err.Error())
		return wrapError("Movie", "update", err)
	}
	return nil
}

func (r *gormMovieRepository) FindWithGenre(ctx context.Context, filter moviePkg.Filter) ([]*moviePkg.Movie, error) {
	q := Query{
		Scopes: []func(*gorm.DB) *gorm.DB{withGenreAndCast},
		Sort:   "created_at DESC",
	}
	if filter.GenreID != nil {
		q.Filters = append(q.Filters, Where("genre_id = ?", *filter.GenreID))
	}
	if filter.Featured != nil {
		q.Filters = append(q.Filters, Where("featured = ?", *filter.Featured))
	}
	return r.Find(ctx, q)
}

func (r *gormMovieRepository) FindByIDWithGenreAndRatings(ctx context.Context, id uuid.UUID) (*moviePkg.Movie, error) {
	return r.FindOne(ctx, Query{
		Filters: []Filter{Where("id = ?", id)},
		Scopes:  []func(*gorm.DB) *gorm.DB{withGenreAndCast, withRatings},
	})
}

func (r *gormMovieRepository) FindByGenre(ctx context.Context, genreID uuid.UUID) ([]*moviePkg.Movie, error) {
	return r.FindWithGenre(ctx, moviePkg.Filter{GenreID: &genreID})
}

func (r *gormMovieRepository) FindFeaturedMovies(ctx context.Context) ([]*moviePkg.Movie, error) {
	featured := true
	return r.FindWithGenre(ctx, moviePkg.Filter{Featured: &featured})
}

// SearchMovies matches title or description case-insensitively
func (r *gormMovieRepository) SearchMovies(ctx context.Context, term string) ([]*moviePkg.Movie, error) {
	return r.AdvancedSearchMovies(ctx, moviePkg.SearchParams{Term: term})
}

// AdvancedSearchMovies combines the optional text and genre filters; unknown
// sort keys fall back to title ascending
func (r *gormMovieRepository) AdvancedSearchMovies(ctx context.Context, params moviePkg.SearchParams) ([]*moviePkg.Movie, error) {
	q := Query{
		Scopes: []func(*gorm.DB) *gorm.DB{withGenreAndCast},
		Sort:   searchSort(params.SortBy, params.Desc),
	}
	if term := strings.TrimSpace(params.Term); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		q.Filters = append(q.Filters, Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern))
	}
	if params.GenreID != nil {
		q.Filters = append(q.Filters, Where("genre_id = ?", *params.GenreID))
	}
	return r.Find(ctx, q)
}

func searchSort(sortBy string, desc bool) string {
	column, ok := movieSortColumns[strings.ToLower(sortBy)]
	if !ok {
		return defaultMovieSort
	}

	direction := " ASC"
	if desc {
		direction = " DESC"
	}
	if column == "title" {
		return column + direction
	}
	return column + direction + ", " + defaultMovieSort
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UpsertRating inserts or overwrites the user's rating and recomputes the
// movie's average in the same transaction
func (r *gormMovieRepository) UpsertRating(ctx context.Context, movieID, userID uuid.UUID, rating int, review string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := moviePkg.Rating{
			MovieID: movieID,
			UserID:  userID,
			Rating:  rating,
			Review:  review,
		}
		err := tx.Omit("User").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "movie_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
		return updateAverage(tx, movieID)
	})
	if err != nil {
		r.logger.Error("Failed to upsert rating on movie " + movieID.String() + ": " + err.Error())
		return wrapError("Rating", "save", err)
	}
	return nil
}

// IncrementView adds the user to the viewers and bumps the counter only when
// the user was not there yet. It reports whether the view was new.
func (r *gormMovieRepository) IncrementView(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("User").Clauses(clause.OnConflict{DoNothing: true}).
			Create(&moviePkg.View{MovieID: movieID, UserID: userID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		added = true
		return tx.Model(&moviePkg.Movie{}).Where("id = ?", movieID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
	})
	if err != nil {
		r.logger.Error("Failed to record view of movie " + movieID.String() + ": " + err.Error())
		return false, wrapError("View", "record", err)
	}
	return added, nil
}

func (r *gormMovieRepository) UpdateAverageRating(ctx context.Context, id uuid.UUID) error {
	if err := updateAverage(r.db.WithContext(ctx), id); err != nil {
		return wrapError("Movie", "update average rating of", err)
	}
	return nil
}

func updateAverage(tx *gorm.DB, movieIDs ...uuid.UUID) error {
	if len(movieIDs) == 0 {
		return nil
	}
	return tx.Model(&moviePkg.Movie{}).Where("id IN ?", movieIDs).
		UpdateColumn("average_rating", gorm.Expr(averageRatingSubquery)).Error
}

// RecalculateAverageRatings fixes every stored average that drifted and
// returns how many rows changed
func (r *gormMovieRepository) RecalculateAverageRatings(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&moviePkg.Movie{}).
		Where("average_rating IS DISTINCT FROM " + averageRatingSubquery).
		UpdateColumn("average_rating", gorm.Expr(averageRatingSubquery))
	if result.Error != nil {
		r.logger.Error("Failed to recalculate average ratings: " + result.Error.Error())
		return 0, wrapError("Movie", "recalculate average ratings of", result.Error)
	}
	return result.RowsAffected, nil
}

// ToggleFeatured flips the flag in one statement and returns the updated movie
func (r *gormMovieRepository) ToggleFeatured(ctx context.Context, id uuid.UUID) (*moviePkg.Movie, error) {
	result := r.db.WithContext(ctx).Model(&moviePkg.Movie{}).Where("id = ?", id).
		Update("featured", gorm.Expr("NOT featured"))
	if result.Error != nil {
		r.logger.Error("Failed to toggle featured on movie " + id.String() + ": " + result.Error.Error())
		return nil, wrapError("Movie", "toggle featured on", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindOne(ctx, Query{
		Filters: []Filter{Where("id = ?", id)},
		Scopes:  []func(*gorm.DB) *gorm.DB{withGenreAndCast},
	})
}

func (r *gormMovieRepository) sortedList(ctx context.Context, sort string, limit int, filters ...Filter) ([]*moviePkg.Movie, error) {
	return r.Find(ctx, Query{
		Filters: filters,
		Scopes:  []func(*gorm.DB) *gorm.DB{withGenreAndCast},
		Sort:    sort,
		Limit:   limit,
	})
}

func (r *gormMovieRepository) FindRecentMovies(ctx context.Context, limit int) ([]*moviePkg.Movie, error) {
	return r.sortedList(ctx, "created_at DESC", limit)
}

func (r *gormMovieRepository) FindTopRatedMovies(ctx context.Context, limit int) ([]*moviePkg.Movie, error) {
	return r.sortedList(ctx, "average_rating DESC, "+defaultMovieSort, limit)
}

func (r *gormMovieRepository) FindMostViewedMovies(ctx context.Context, limit int) ([]*moviePkg.Movie, error) {
	return r.sortedList(ctx, "views DESC, "+defaultMovieSort, limit)
}

// FindSoonReleasingMovies lists movies releasing after now, soonest first
func (r *gormMovieRepository) FindSoonReleasingMovies(ctx context.Context, now time.Time, limit int) ([]*moviePkg.Movie, error) {
	return r.sortedList(ctx, "release_date ASC, "+defaultMovieSort, limit, Where("release_date > ?", now))
}

func (r *gormMovieRepository) FindUserRating(ctx context.Context, movieID, userID uuid.UUID) (*moviePkg.Rating, error) {
	var rating moviePkg.Rating
	err := r.db.WithContext(ctx).Preload("User").
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Take(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapError("Rating", "find", err)
	}
	return &rating, nil
}

func (r *gormMovieRepository) IsFavouritedBy(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_favourites").
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Count(&count).Error
	if err != nil {
		return false, wrapError("Favourite", "find", err)
	}
	return count > 0, nil
}
