package repository

import (
	genrePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/genre"
	moviePkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	userPkg "github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/user"
	"gorm.io/gorm"
)

// Models lists every persisted model, parents first
func Models() []any {
	return []any{
		&genrePkg.Genre{},
		&userPkg.User{},
		&moviePkg.Movie{},
		&moviePkg.CastMember{},
		&moviePkg.Rating{},
		&moviePkg.View{},
		&userPkg.Favourite{},
	}
}

// Migrate creates or updates every table in one AutoMigrate call, then adds
// the expression indexes gorm tags cannot describe
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_genres_name_lower ON genres (LOWER(name))",
	).Error
}
