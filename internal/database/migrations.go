package database

import (
	"lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every table owned by the application, in dependency order.
var Models = []any{
	&models.User{},
	&models.Room{},
	&models.Booking{},
	&models.ServiceRequest{},
	&models.ActivityLog{},
}

// MigrateModels creates missing tables first and then lets AutoMigrate add
// columns, indexes and foreign keys.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, model := range Models {
		if db.SQL.Migrator().HasTable(model) {
			continue
		}
		log.Info("Creating table structure", "table", model)
		if err := db.SQL.Migrator().CreateTable(model); err != nil {
			return log.Err("failed to create table structure", err)
		}
	}

	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := db.SQL.AutoMigrate(Models...); err != nil {
		return log.Err("failed to add constraints", err)
	}

	log.Info("Database migration completed successfully")
	return nil
}

// DropModels removes every application table. Used by the seed command to
// start from a clean slate.
func (db *DB) DropModels() error {
	log := logger.New("database").Function("DropModels")

	if err := db.SQL.Migrator().DropTable(Models...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	log.Info("Dropped all tables")
	return nil
}
