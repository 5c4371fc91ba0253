package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateContributionsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating contributions table...")
	if err := db.AutoMigrate(&models.Contribution{}); err != nil {
		configslog.Log.Error("Failed to migrate contributions table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Contributions table migrated successfully")
	return nil
}
