package domain

// Ограничения пагинации единые для товаров, категорий и заказов.
const (
	// PageSizeDefault применяется, если размер страницы не задан.
	PageSizeDefault = 20
	// PageSizeMax — верхняя граница размера страницы.
	PageSizeMax = 50
)

// PageRequest описывает запрос страницы: номер с нуля и размер 1..50.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest нормализует номер и размер страницы к допустимым границам.
func NewPageRequest(page, size int) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = PageSizeDefault
	}
	if size > PageSizeMax {
		size = PageSizeMax
	}
	return PageRequest{Page: page, Size: size}
}

// Offset возвращает смещение первой записи страницы.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page — одна страница выборки с метаданными навигации.
type Page[T any] struct {
	Content       []T
	Page          int
	Size          int
	TotalPages    int
	TotalElements int64
	First         bool
	Last          bool
}

// NewPage собирает страницу из готового среза контента и общего числа записей.
// Ненормализованный req приводится к допустимым границам здесь же.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if req.Size <= 0 {
		req = NewPageRequest(req.Page, req.Size)
	}
	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalPages:    totalPages,
		TotalElements: total,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}

// PaginateSlice вырезает страницу из полного среза; используется
// in-memory репозиториями.
func PaginateSlice[T any](all []T, req PageRequest) Page[T] {
	total := int64(len(all))
	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	page := make([]T, end-start)
	copy(page, all[start:end])
	return NewPage(page, req, total)
}
