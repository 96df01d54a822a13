package response

import "testing"

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		page     int
		pageSize int
		total    int64
		wantPage int64
	}{
		{page: 1, pageSize: 20, total: 0, wantPage: 0},
		{page: 1, pageSize: 20, total: 20, wantPage: 1},
		{page: 2, pageSize: 20, total: 21, wantPage: 2},
		{page: 1, pageSize: 7, total: 50, wantPage: 8},
	}
	for _, item := range cases {
		got := BuildPagination(item.page, item.pageSize, item.total)
		if got.TotalPage != item.wantPage {
			t.Fatalf("total %d size %d want %d pages got %d", item.total, item.pageSize, item.wantPage, got.TotalPage)
		}
		if got.Page != item.page || got.PageSize != item.pageSize || got.Total != item.total {
			t.Fatalf("pagination echo mismatch: %+v", got)
		}
	}
}

func TestBuildPaginationNormalizesInput(t *testing.T) {
	got := BuildPagination(0, 0, 3)
	if got.Page != 1 || got.PageSize != 1 {
		t.Fatalf("expected normalized page/page_size, got %+v", got)
	}
	if got.TotalPage != 3 {
		t.Fatalf("expected 3 pages, got %d", got.TotalPage)
	}
}
