package database

import (
	"fmt"

	"github.com/shayanv/formboard/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the postgres connection. TranslateError is on so that
// unique index violations surface as gorm.ErrDuplicatedKey, which the slug
// allocation retry loop depends on.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
