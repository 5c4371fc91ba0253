package models

// Item katalogdaki bir hediye ürününü temsil eder. Fiyat kuruş cinsindendir.
type Item struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	PriceCents  int64  `gorm:"not null"`
	ImageURL    string `gorm:"type:varchar(500)"`
	Priority    int    `gorm:"type:integer;default:0;index"`
}

// EventArticle bir ürünü bir etkinliğin dilek listesine bağlar ve
// istenen/karşılanan adetleri takip eder.
type EventArticle struct {
	BaseModel
	EventID uint  `gorm:"not null;index:idx_article_event_item,unique"`
	Event   Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ItemID  uint  `gorm:"not null;index:idx_article_event_item,unique"`
	Item    Item  `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	QuantityRequested int `gorm:"type:integer;not null;default:1"`
	QuantityFulfilled int `gorm:"type:integer;not null;default:0"`

	// İlişkiler
	Contributions []Contribution `gorm:"foreignKey:EventArticleID"`
}

// TargetCents makalenin karşılanmış sayılması için gereken toplam tutardır.
func (a EventArticle) TargetCents() int64 {
	return a.Item.PriceCents * int64(a.QuantityRequested)
}

// IsFulfilled istenen adedin tamamının karşılanıp karşılanmadığını söyler.
func (a EventArticle) IsFulfilled() bool {
	return a.QuantityFulfilled >= a.QuantityRequested
}
