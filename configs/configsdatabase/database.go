package configsdatabase

import (
	"fmt"
	"os"
	"time"

	"hediye.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB ortam değişkenlerinden Postgres bağlantısını kurar.
// Uygulama başlarken bir kez çağrılmalıdır.
func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "hediye"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	conn, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantısı kurulamadı", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("SQL DB örneği alınamadı", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = conn
	configslog.SLog.Info("Veritabanı bağlantısı başarıyla kuruldu.")
}

// GetDB aktif GORM bağlantısını döndürür.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB çağrıldı ancak veritabanı henüz başlatılmadı (InitDB unutuldu mu?)")
	}
	return db
}

// SetDB test ortamında bağlantıyı değiştirmek için kullanılır.
func SetDB(conn *gorm.DB) {
	db = conn
}

// CloseDB bağlantı havuzunu kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("SQL DB örneği alınamadı, bağlantı kapatılamıyor", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılırken hata oluştu", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
