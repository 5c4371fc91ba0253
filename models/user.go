package models

// User sisteme kayıtlı bir kullanıcıyı (planlayıcı veya davetli) temsil eder.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(150);not null"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	AvatarURL    string `gorm:"type:varchar(500)"`
	Bio          string `gorm:"type:text"`
	IsAdmin      bool   `gorm:"default:false;index"`
	IsActive     bool   `gorm:"default:true;index"`

	// Ödeme sağlayıcısındaki bağlı hesap (payout hedefi). Boş olabilir.
	StripeAccountID string `gorm:"type:varchar(255);index"`

	// İlişkiler
	Events []Event `gorm:"foreignKey:PlannerUserID"`
}
