package models

import "time"

// Event bir planlayıcının oluşturduğu hediye etkinliğini temsil eder.
// InviteKey public davet sayfasının adresidir (/:key).
type Event struct {
	BaseModel
	PlannerUserID uint   `gorm:"index;not null"`
	Planner       User   `gorm:"foreignKey:PlannerUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	InviteKey     string `gorm:"type:varchar(11);uniqueIndex;not null"`

	Title         string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text"`
	EventDateTime time.Time `gorm:"index;not null"`
	Timezone      string    `gorm:"type:varchar(50);default:'UTC'"`
	LocationText  string    `gorm:"type:varchar(255)"`
	LocationURL   string    `gorm:"type:varchar(500)"`
	CoverImageURL string    `gorm:"type:varchar(500)"`
	IsEnabled     bool      `gorm:"default:true;index"`

	// Etkinlik bitiminde payout'un tekrar denenmemesi için işaretlenir.
	PayoutCompletedAt *time.Time `gorm:"index"`

	// İlişkiler
	Invitations []Invitation   `gorm:"foreignKey:EventID"`
	Articles    []EventArticle `gorm:"foreignKey:EventID"`
	Media       []Media        `gorm:"foreignKey:EventID"`
}
