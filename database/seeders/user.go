package seeders

import (
	"errors"
	"os"

	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser ortam değişkenlerinden admin hesabını oluşturur veya günceller.
// ADMIN_PASSWORD tanımlı değilse mevcut kurulumlar bozulmasın diye atlanır.
func SeedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Sistem Yöneticisi"
	}

	if email == "" || password == "" {
		configslog.SLog.Warn("ADMIN_EMAIL/ADMIN_PASSWORD tanımlı değil, admin seed adımı atlanıyor.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Admin şifresi hashlenemedi", zap.Error(err))
		return err
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		updates := map[string]any{
			"name":          name,
			"password_hash": string(hash),
			"is_admin":      true,
			"is_active":     true,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			configslog.Log.Error("Admin kullanıcısı güncellenemedi", zap.String("email", email), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Admin kullanıcısı güncellendi: %s (ID %d)", email, existing.ID)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Admin kullanıcısı kontrol edilirken veritabanı hatası",
			zap.String("email", email), zap.Error(result.Error))
		return result.Error
	}

	admin := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Admin kullanıcısı oluşturulamadı", zap.String("email", email), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Admin kullanıcısı oluşturuldu: %s (ID %d)", email, admin.ID)
	return nil
}
