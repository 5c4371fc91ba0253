package models

import "time"

// ReportTargetType şikayetin hedef türünü tanımlar.
type ReportTargetType string

const (
	ReportTargetTypeEvent ReportTargetType = "EVENT"
	ReportTargetTypeMedia ReportTargetType = "MEDIA"
)

// ReportStatus şikayetin inceleme durumunu tanımlar.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "OPEN"
	ReportStatusResolved ReportStatus = "RESOLVED"
)

// Report bir kullanıcının bir etkinlik veya medya hakkındaki şikayetidir.
type Report struct {
	BaseModel
	ReporterUserID uint `gorm:"not null;index"`
	Reporter       User `gorm:"foreignKey:ReporterUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	TargetType ReportTargetType `gorm:"type:varchar(10);not null;index:idx_report_target"`
	TargetID   uint             `gorm:"not null;index:idx_report_target"`
	Reason     string           `gorm:"type:text;not null"`

	Status           ReportStatus `gorm:"type:varchar(10);not null;default:'OPEN';index"`
	ResolvedByUserID *uint        `gorm:"index"`
	ResolvedAt       *time.Time
}
