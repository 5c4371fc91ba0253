package repositories

import (
	"context"
	"errors"
	"fmt"

	"hediye.link/pkg/queryparams"

	"gorm.io/gorm"
)

// ErrNotFound aranan kaydın bulunamadığını belirtir. Servis katmanı bunu
// kendi tipli hatalarına çevirir.
var ErrNotFound = errors.New("kayıt bulunamadı")

// IBaseRepository ortak sıralama/sayfalama yardımcılarını tanımlar.
type IBaseRepository[T any] interface {
	SetAllowedSortColumns(cols []string)
	OrderClause(params queryparams.ListParams, fallback string) string
	Paginate(db *gorm.DB, params queryparams.ListParams) *gorm.DB
}

// BaseRepository liste sorgularında izinli sıralama kolonlarını ve
// sayfalamayı uygular. SQL injection'a karşı sıralama kolonu whitelist'tir.
type BaseRepository[T any] struct {
	db          *gorm.DB
	sortColumns map[string]struct{}
}

// NewBaseRepository verilen bağlantıyla bir base repo oluşturur.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, sortColumns: map[string]struct{}{}}
}

// SetAllowedSortColumns sıralanabilir kolonları belirler.
func (r *BaseRepository[T]) SetAllowedSortColumns(cols []string) {
	r.sortColumns = make(map[string]struct{}, len(cols))
	for _, c := range cols {
		r.sortColumns[c] = struct{}{}
	}
}

// OrderClause parametrelerdeki sıralamayı whitelist'e göre SQL'e çevirir.
func (r *BaseRepository[T]) OrderClause(params queryparams.ListParams, fallback string) string {
	col := fallback
	if _, ok := r.sortColumns[params.SortBy]; ok {
		col = params.SortBy
	}
	dir := "DESC"
	if params.OrderBy == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

// Paginate offset/limit uygular.
func (r *BaseRepository[T]) Paginate(db *gorm.DB, params queryparams.ListParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.PerPage)
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)

type txKey struct{}

// ContextWithTx aktif transaction'ı context üzerinden repo katmanına taşır.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFromContext context'te transaction varsa onu, yoksa verilen bağlantıyı döndürür.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
