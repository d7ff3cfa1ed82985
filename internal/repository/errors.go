package repository

import (
	"errors"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// wrapError re-signals a storage failure as an application error naming the
// entity and operation. Constraint violations become conflicts.
func wrapError(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.As(err) != nil {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(entity + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.Conflict(entity + " references or is referenced by another record").WithCause(err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperr.Validation("", "Invalid "+entity+" data").WithCause(err)
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(entity + " already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Conflict(entity + " references or is referenced by another record").WithCause(err)
	}

	return apperr.Server("failed to "+op+" "+entity, err)
}
