package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateMediaTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating media table...")
	if err := db.AutoMigrate(&models.Media{}); err != nil {
		configslog.Log.Error("Failed to migrate media table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Media table migrated successfully")
	return nil
}
