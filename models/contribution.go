package models

import "time"

// Contribution bir davetlinin dilek listesindeki bir makaleye yaptığı
// parasal katkıyı temsil eder. Tutar kuruş cinsindendir.
type Contribution struct {
	BaseModel
	EventArticleID uint         `gorm:"not null;index"`
	EventArticle   EventArticle `gorm:"foreignKey:EventArticleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	ContributorUserID uint `gorm:"not null;index"`
	Contributor       User `gorm:"foreignKey:ContributorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	AmountCents   int64     `gorm:"not null"`
	Message       string    `gorm:"type:text"`
	ContributedAt time.Time `gorm:"index"`

	// Payout sonrası işaretlenir; tekrar transfer edilmez.
	SettledAt *time.Time `gorm:"index"`
}
