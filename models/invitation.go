package models

import "time"

// InvitationStatus bir davetin olası durumlarını tanımlar.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"  // Henüz cevap verilmedi
	InvitationStatusAccepted InvitationStatus = "ACCEPTED" // Katılacak
	InvitationStatusRejected InvitationStatus = "REJECTED" // Katılmayacak
)

// Invitation bir davetlinin bir etkinlikle ilişkisini ve LCV durumunu tutar.
type Invitation struct {
	BaseModel
	EventID     uint  `gorm:"not null;index:idx_invitation_event_guest,unique"`
	Event       Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GuestUserID uint  `gorm:"not null;index:idx_invitation_event_guest,unique"`
	Guest       User  `gorm:"foreignKey:GuestUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	GuestEmail  string           `gorm:"type:varchar(150);not null"` // Davet mailinin gittiği adres
	Status      InvitationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Message     string           `gorm:"type:text"` // Planlayıcının davete eklediği not
	RespondedAt *time.Time
}
