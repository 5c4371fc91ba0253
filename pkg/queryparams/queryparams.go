package queryparams

// Sayfalama sınırları
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams liste endpoint'lerinin ortak query parametrelerini taşır.
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"` // asc | desc
	Name    string `query:"name"`    // İsim/başlık filtresi
	Status  string `query:"status"`
}

// DefaultListParams verilen sıralama kolonuyla varsayılan parametreleri üretir.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		OrderBy: "desc",
	}
}

// Validate sayfalama değerlerini güvenli aralıklara çeker.
func (p *ListParams) Validate() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = "desc"
	}
}

// Offset SQL offset değerini hesaplar.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PaginationMeta sayfalama meta bilgisini taşır.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResult veri + meta ikilisini taşır.
type PaginatedResult struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// CalculateTotalPages toplam sayfa sayısını hesaplar.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(totalItems) / perPage
	if int(totalItems)%perPage != 0 {
		pages++
	}
	return pages
}
