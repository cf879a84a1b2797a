package pkg

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
)

const (
	defaultPage = 0
	// DefaultPageSize is used when the size query parameter is absent or invalid.
	DefaultPageSize = 15
	maxPageSize     = 100
	// maxPage keeps Page*Size within int for every accepted size.
	maxPage = math.MaxInt / maxPageSize
)

// ParsePageRequest extracts zero-based pagination from the page and size
// query parameters. Invalid or negative values fall back to the defaults,
// size is capped at 100 and page at maxPage.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	switch {
	case errors.Is(err, strconv.ErrRange) && page > 0:
		page = maxPage
	case err != nil || page < 0:
		page = defaultPage
	case page > maxPage:
		page = maxPage
	}

	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return domain.PageRequest{Page: page, Size: size}
}

// OptionalID reads an identifier filter from the named query parameter.
// It returns nil when the parameter is absent, empty, negative or not an
// integer, which callers treat as "no filter".
func OptionalID(c *gin.Context, key string) *uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 || uint64(v) > uint64(^uint(0)) {
		return nil
	}
	id := uint(v)
	return &id
}

// ParseID parses a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid "+name+": "+raw, nil)
	}
	return uint(id), nil
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the page request.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.Size)
	}
}

// NewPage creates a Page with computed TotalPages.
func NewPage[T any](items []T, total int64, req domain.PageRequest) *domain.Page[T] {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Size)))
	}

	if items == nil {
		items = []T{}
	}

	return &domain.Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Size:       req.Size,
		TotalPages: totalPages,
	}
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, R any](p *domain.Page[T], fn func(T) R) *domain.Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return &domain.Page[R]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: p.TotalPages,
	}
}
