package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateWishlistTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating items & event_articles tables...")
	if err := db.AutoMigrate(&models.Item{}, &models.EventArticle{}); err != nil {
		configslog.Log.Error("Failed to migrate items & event_articles tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Items & event_articles tables migrated successfully")
	return nil
}
