// Veritabanı başlatma CLI'ı. -migrate hediye şemasını (kullanıcı, etkinlik,
// davet, hediye listesi, katkı, medya, stripe kaydı, şikayet tabloları) FK
// sırasına göre kurar; -seed ADMIN_EMAIL/ADMIN_PASSWORD ortam
// değişkenlerinden admin hesabını oluşturur.
package main

import (
	"flag"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	seedFlag := flag.Bool("seed", false, "Veritabanı başlatma işlemini çalıştır (seederları içerir)")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
