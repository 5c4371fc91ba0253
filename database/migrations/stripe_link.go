package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateStripeLinksTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating stripe_links table...")
	if err := db.AutoMigrate(&models.StripeLink{}); err != nil {
		configslog.Log.Error("Failed to migrate stripe_links table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Stripe_links table migrated successfully")
	return nil
}
