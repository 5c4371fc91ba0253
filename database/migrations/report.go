package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateReportsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating reports table...")
	if err := db.AutoMigrate(&models.Report{}); err != nil {
		configslog.Log.Error("Failed to migrate reports table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Reports table migrated successfully")
	return nil
}
