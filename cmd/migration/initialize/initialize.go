package initialize

import (
	"context"

	"lumen/config"
	. "lumen/internal/models"
	"lumen/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	DefaultAdminName  = "Front Desk Admin"
	DefaultAdminEmail = "admin@lumen.local"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmin(db, log); err != nil {
		return log.Err("failed to initialize admin user", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeAdmin(db *gorm.DB, log logger.Logger) error {
	userRepo := repositories.NewUserRepository()

	admin, err := userRepo.FindOrCreateByEmail(
		context.Background(),
		db,
		DefaultAdminName,
		DefaultAdminEmail,
		UserRoleAdmin,
	)
	if err != nil {
		return err
	}

	if admin.Role != UserRoleAdmin {
		log.Warn("Default admin email belongs to a non-admin user", "email", admin.Email, "role", admin.Role)
		return nil
	}

	log.Info("Default admin ready", "email", admin.Email, "id", admin.ID)
	return nil
}
