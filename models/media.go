package models

// MediaKind yüklenen medyanın türünü tanımlar.
type MediaKind string

const (
	MediaKindImage MediaKind = "IMAGE"
	MediaKindVideo MediaKind = "VIDEO"
)

// Media bir etkinliğe yüklenmiş görsel/videoyu temsil eder.
// Dosyanın kendisi S3'te durur; burada sadece URL ve anahtar tutulur.
type Media struct {
	BaseModel
	EventID        uint  `gorm:"not null;index"`
	Event          Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UploaderUserID uint  `gorm:"not null;index"`
	Uploader       User  `gorm:"foreignKey:UploaderUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	Kind      MediaKind `gorm:"type:varchar(10);not null;default:'IMAGE'"`
	URL       string    `gorm:"type:varchar(500);not null"`
	ObjectKey string    `gorm:"type:varchar(255);not null"`
	Caption   string    `gorm:"type:varchar(255)"`
}
