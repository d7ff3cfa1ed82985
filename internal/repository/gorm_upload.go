package repository

import (
	"context"

	uploadPkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/upload"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"gorm.io/gorm"
)

// gormUploadReferences lists stored file paths still pointed at by a row
type gormUploadReferences struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMUploadReferences creates the reference source used by the upload sweeper
func NewGORMUploadReferences(db *gorm.DB, log *logger.Logger) uploadPkg.ReferenceSource {
	return &gormUploadReferences{
		db:     db,
		logger: log.WithComponent("gorm-upload-references"),
	}
}

func (r *gormUploadReferences) ReferencedUploads(ctx context.Context) ([]string, error) {
	var paths []string

	err := r.db.WithContext(ctx).Raw(`
		SELECT cover_image FROM movies WHERE cover_image <> ''
		UNION
		SELECT image FROM genres WHERE image <> ''
		UNION
		SELECT profile_image FROM users WHERE profile_image <> ''
	`).Scan(&paths).Error
	if err != nil {
		r.logger.Error("Failed to list referenced uploads: " + err.Error())
		return nil, wrapError("Upload", "list references of", err)
	}

	return paths, nil
}
