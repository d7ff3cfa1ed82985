// Package repository implements the feature repositories on GORM.
package repository

import (
	"context"
	"errors"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter is one SQL condition with its arguments
type Filter struct {
	Expr string
	Args []any
}

// Where builds a Filter
func Where(expr string, args ...any) Filter {
	return Filter{Expr: expr, Args: args}
}

// Query describes a find/count over one model. Zero values are ignored.
type Query struct {
	Filters  []Filter
	Preloads []string
	Scopes   []func(*gorm.DB) *gorm.DB
	Sort     string
	Fields   []string
	Limit    int
	Offset   int
}

// baseRepository provides the uniform operations every model repository shares.
// Lookups return (nil, nil) when no row matches.
type baseRepository[T any] struct {
	db     *gorm.DB
	entity string
	logger *logger.Logger
}

func newBaseRepository[T any](db *gorm.DB, entity string, log *logger.Logger) *baseRepository[T] {
	return &baseRepository[T]{
		db:     db,
		entity: entity,
		logger: log,
	}
}

func (r *baseRepository[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(T))
	for _, f := range q.Filters {
		tx = tx.Where(f.Expr, f.Args...)
	}
	for _, p := range q.Preloads {
		tx = tx.Preload(p)
	}
	if len(q.Scopes) > 0 {
		tx = tx.Scopes(q.Scopes...)
	}
	if len(q.Fields) > 0 {
		tx = tx.Select(q.Fields)
	}
	if q.Sort != "" {
		tx = tx.Order(q.Sort)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

func (r *baseRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		r.logger.Error("Failed to create " + r.entity + ": " + err.Error())
		return wrapError(r.entity, "create", err)
	}
	return nil
}

func (r *baseRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.FindOne(ctx, Query{Filters: []Filter{Where("id = ?", id)}})
}

func (r *baseRepository[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	var entity T
	err := r.scoped(ctx, q).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Database error finding " + r.entity + ": " + err.Error())
		return nil, wrapError(r.entity, "find", err)
	}
	return &entity, nil
}

func (r *baseRepository[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	var entities []*T
	if err := r.scoped(ctx, q).Find(&entities).Error; err != nil {
		r.logger.Error("Database error listing " + r.entity + ": " + err.Error())
		return nil, wrapError(r.entity, "list", err)
	}
	return entities, nil
}

// UpdateByID applies column updates and returns the reloaded row
func (r *baseRepository[T]) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]any) (*T, error) {
	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if err := result.Error; err != nil {
		r.logger.Error("Failed to update " + r.entity + " " + id.String() + ": " + err.Error())
		return nil, wrapError(r.entity, "update", err)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// DeleteByID removes the row and returns it as it was before deletion
func (r *baseRepository[T]) DeleteByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var deleted *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity T
		if err := tx.Where("id = ?", id).Take(&entity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("id = ?", id).Delete(new(T)).Error; err != nil {
			return err
		}
		deleted = &entity
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete " + r.entity + " " + id.String() + ": " + err.Error())
		return nil, wrapError(r.entity, "delete", err)
	}
	return deleted, nil
}

func (r *baseRepository[T]) Count(ctx context.Context, q Query) (int64, error) {
	var count int64
	q.Limit, q.Offset, q.Sort, q.Preloads = 0, 0, "", nil
	if err := r.scoped(ctx, q).Count(&count).Error; err != nil {
		return 0, wrapError(r.entity, "count", err)
	}
	return count, nil
}

func (r *baseRepository[T]) Exists(ctx context.Context, q Query) (bool, error) {
	count, err := r.Count(ctx, q)
	return count > 0, err
}
