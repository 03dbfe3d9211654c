package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestNewPageRequest_Normalization(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"defaults", 0, 0, 0, domain.PageSizeDefault},
		{"negative page", -3, 10, 0, 10},
		{"oversized", 1, 500, 1, domain.PageSizeMax},
		{"in range", 2, 30, 2, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := domain.NewPageRequest(tc.page, tc.size)
			if req.Page != tc.wantPage || req.Size != tc.wantSize {
				t.Fatalf("expected page=%d size=%d, got page=%d size=%d",
					tc.wantPage, tc.wantSize, req.Page, req.Size)
			}
		})
	}
}

func TestNewPage_UnnormalizedRequest(t *testing.T) {
	// Запрос с нулевым размером, собранный мимо NewPageRequest,
	// не должен ронять сборку страницы.
	page := domain.NewPage([]string{"a", "b"}, domain.PageRequest{Page: 0, Size: 0}, 2)
	if page.Size != domain.PageSizeDefault {
		t.Fatalf("expected normalized size %d, got %d", domain.PageSizeDefault, page.Size)
	}
	if page.TotalPages != 1 || !page.First || !page.Last {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
}

func TestPaginateSlice(t *testing.T) {
	all := make([]int, 0, 45)
	for i := 0; i < 45; i++ {
		all = append(all, i)
	}

	first := domain.PaginateSlice(all, domain.NewPageRequest(0, 20))
	if len(first.Content) != 20 || first.Content[0] != 0 {
		t.Fatalf("unexpected first page: len=%d", len(first.Content))
	}
	if !first.First || first.Last {
		t.Fatal("first page flags are wrong")
	}
	if first.TotalElements != 45 || first.TotalPages != 3 {
		t.Fatalf("expected total=45 pages=3, got total=%d pages=%d", first.TotalElements, first.TotalPages)
	}

	last := domain.PaginateSlice(all, domain.NewPageRequest(2, 20))
	if len(last.Content) != 5 || last.Content[0] != 40 {
		t.Fatalf("unexpected last page: len=%d", len(last.Content))
	}
	if last.First || !last.Last {
		t.Fatal("last page flags are wrong")
	}

	// Страница за пределами данных остаётся валидной и пустой.
	beyond := domain.PaginateSlice(all, domain.NewPageRequest(10, 20))
	if len(beyond.Content) != 0 {
		t.Fatalf("expected empty page, got %d items", len(beyond.Content))
	}
}
