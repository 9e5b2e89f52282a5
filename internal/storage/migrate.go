package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"flightclaim/backend/internal/models"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects gorm to Postgres with error translation enabled.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Migrate runs the embedded SQL migrations ("up" or "down") against db.
// steps > 0 limits how many migrations are applied.
func Migrate(db *sql.DB, direction string, steps int) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return fmt.Errorf("unknown direction: %s", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Models lists every table managed by AutoMigrate.
var Models = []interface{}{
	&models.Claim{},
	&models.ClaimComment{},
	&models.BlogPost{},
	&models.PageContent{},
	&models.Partner{},
	&models.PressRelease{},
	&models.TeamMember{},
	&models.ChatSession{},
	&models.ChatMessage{},
	&models.KnowledgeBase{},
	&models.Airport{},
	&models.AdminUser{},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_knowledge_embedding ON knowledge_base USING hnsw (embedding vector_cosine_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_city_trgm ON airports USING gin (city gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_name_trgm ON airports USING gin (name gin_trgm_ops)`,
}

// AutoMigrate creates or alters the tables and the indexes gorm tags cannot express.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
