package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEventsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating events table...")
	if err := db.AutoMigrate(&models.Event{}); err != nil {
		configslog.Log.Error("Failed to migrate events table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Events table migrated successfully")
	return nil
}
