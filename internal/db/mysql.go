package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// NewMySQL returns a connected GORM DB instance. TranslateError lets the
// repositories detect unique-constraint violations as gorm.ErrDuplicatedKey
// instead of parsing driver error strings.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema. The explicit join table must be
// registered before AutoMigrate so the genre association carries the
// composite primary key and cascade constraints declared on it.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Title{}, "Genres", &model.GenreTitle{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Genre{},
		&model.Title{},
		&model.Review{},
		&model.Comment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// MySQL compares varchar columns case-insensitively by default, which
	// would widen the username/email unique indexes to case variants. Force
	// a binary collation so both compare exact bytes.
	if db.Dialector.Name() == "mysql" {
		for _, stmt := range []string{
			"ALTER TABLE users MODIFY username VARCHAR(150) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
			"ALTER TABLE users MODIFY email VARCHAR(254) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
		} {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("apply binary collation: %w", err)
			}
		}
	}
	return nil
}
