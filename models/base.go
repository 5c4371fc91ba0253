package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// CtxUserIDKey işlemi yapan kullanıcının ID'sini context üzerinden taşır.
// Audit kolonları (CreatedBy/UpdatedBy) hook'lar tarafından buradan doldurulur.
const CtxUserIDKey contextKey = "user_id"

// BaseModel tüm tablolarda ortak olan kimlik ve audit kolonlarını içerir.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy *uint          `gorm:"index"`
	UpdatedBy *uint
	DeletedBy *uint
}

// ContextWithUserID audit hook'larının okuyacağı kullanıcı ID'sini context'e ekler.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, CtxUserIDKey, userID)
}

// UserIDFromContext context'teki kullanıcı ID'sini döndürür (yoksa 0).
func UserIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}

// BeforeCreate CreatedBy kolonunu context'teki kullanıcıyla doldurur.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id := UserIDFromContext(tx.Statement.Context); id != 0 {
		m.CreatedBy = &id
	}
	return nil
}

// BeforeUpdate UpdatedBy kolonunu context'teki kullanıcıyla doldurur.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id := UserIDFromContext(tx.Statement.Context); id != 0 {
		m.UpdatedBy = &id
	}
	return nil
}
