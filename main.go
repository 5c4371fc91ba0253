package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/pkg/paymentgw"
	"hediye.link/pkg/storage"
	"hediye.link/routes"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	gateway := paymentgw.New(cfg.StripeSecretKey)

	uploader, err := storage.NewS3Uploader(context.Background(), cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		configslog.Log.Fatal("S3 yükleyici kurulamadı", zap.Error(err))
	}

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		BodyLimit:   services.MaxUploadBytes + 1<<20,
		ReadTimeout: 30 * time.Second,
	})

	routes.SetupRoutes(app, gateway, uploader)

	// Payout kontrolü sunucuyla aynı süreçte çalışır; kapanışta ctx ile durur.
	pollCtx, stopPoller := context.WithCancel(context.Background())
	payoutService := services.NewPayoutService(gateway)
	go payoutService.RunPoller(pollCtx)

	go func() {
		configslog.SLog.Infof("Sunucu başlatılıyor: :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("Kapanış sinyali alındı, sunucu durduruluyor...")
	stopPoller()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
	}
	configslog.SLog.Info("Sunucu durduruldu.")
}
