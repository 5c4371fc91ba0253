package models

// StripeLinkStatus ödeme sağlayıcısındaki oturumun yerel durumunu tanımlar.
type StripeLinkStatus string

const (
	StripeLinkStatusPending  StripeLinkStatus = "PENDING"
	StripeLinkStatusAccepted StripeLinkStatus = "ACCEPTED"
	StripeLinkStatusExpired  StripeLinkStatus = "EXPIRED"
)

// StripeLinkKind kaydın checkout oturumu mu payment link mi olduğunu söyler.
type StripeLinkKind string

const (
	StripeLinkKindCheckoutSession StripeLinkKind = "CHECKOUT_SESSION"
	StripeLinkKindPaymentLink     StripeLinkKind = "PAYMENT_LINK"
)

// StripeLink ödeme sağlayıcısındaki bir checkout oturumunu / payment link'i
// yansıtan muhasebe kaydıdır. Durumu webhook olayları günceller.
type StripeLink struct {
	BaseModel
	Kind        StripeLinkKind   `gorm:"type:varchar(20);not null;default:'CHECKOUT_SESSION'"`
	ProviderRef string           `gorm:"type:varchar(255);uniqueIndex;not null"` // cs_... veya plink_...
	Status      StripeLinkStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	URL         string           `gorm:"type:varchar(500)"`

	EventArticleID    uint  `gorm:"not null;index"`
	ContributorUserID uint  `gorm:"not null;index"`
	AmountCents       int64 `gorm:"not null"`
	Message           string `gorm:"type:text"`
}
