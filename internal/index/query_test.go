package index

import (
	"fmt"
	"testing"

	"arthub-go/internal/arthub"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestSQLiteIndex_QueryPagination(t *testing.T) {
	idx := newTestIndex(t)
	folder := insertTestFolder(t, idx, "/art", arthub.SpacePersonal)

	var batch []*arthub.AssetUpsert
	for i := 0; i < 501; i++ {
		batch = append(batch, testUpsert(folder.ID, fmt.Sprintf("/art/asset_%04d.png", i)))
	}
	upsertTestAssets(t, idx, batch...)

	t.Run("default page size", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 501 {
			t.Errorf("Total = %d, want 501", result.Total)
		}
		if len(result.Assets) != 100 {
			t.Errorf("len(Assets) = %d, want default page of 100", len(result.Assets))
		}
		if result.Page != 1 || result.PageSize != 100 {
			t.Errorf("Page = %d, PageSize = %d; want 1, 100", result.Page, result.PageSize)
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{Page: 6})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(result.Assets) != 1 {
			t.Errorf("len(Assets) = %d, want 1 on page 6", len(result.Assets))
		}
		if result.Total != 501 {
			t.Errorf("Total = %d, want 501 regardless of page", result.Total)
		}
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{Page: 7})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(result.Assets) != 0 {
			t.Errorf("len(Assets) = %d, want 0 past the end", len(result.Assets))
		}
		if result.Total != 501 {
			t.Errorf("Total = %d, want 501", result.Total)
		}
	})

	t.Run("page size is clamped", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{PageSize: 9999})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.PageSize != 500 {
			t.Errorf("PageSize = %d, want clamped to 500", result.PageSize)
		}
		if len(result.Assets) != 500 {
			t.Errorf("len(Assets) = %d, want 500", len(result.Assets))
		}
	})

	t.Run("zero page becomes one", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{Page: -3, PageSize: 10})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Page != 1 {
			t.Errorf("Page = %d, want 1", result.Page)
		}
		if result.Assets[0].FileName != "asset_0000.png" {
			t.Errorf("first asset = %q, want the first row", result.Assets[0].FileName)
		}
	})

	t.Run("pages do not overlap", func(t *testing.T) {
		seen := make(map[int64]bool)
		for page := int64(1); page <= 6; page++ {
			result, err := idx.Query(arthub.QueryParams{Page: page})
			if err != nil {
				t.Fatalf("Query(page %d) error = %v", page, err)
			}
			for _, a := range result.Assets {
				if seen[a.ID] {
					t.Fatalf("asset %d returned on two pages", a.ID)
				}
				seen[a.ID] = true
			}
		}
		if len(seen) != 501 {
			t.Errorf("walked %d distinct assets, want 501", len(seen))
		}
	})
}

func TestSQLiteIndex_QueryFilters(t *testing.T) {
	idx := newTestIndex(t)
	art := insertTestFolder(t, idx, "/art", arthub.SpacePersonal)
	refs := insertTestFolder(t, idx, "/refs", arthub.SpacePersonal)

	hero := testUpsert(art.ID, "/art/hero_final.PSD")
	hero.FileExt = "PSD"
	hero.Width = 4096
	sketch := testUpsert(art.ID, "/art/hero_sketch.png")
	sketch.Width = 800
	clip := testUpsert(art.ID, "/art/walkcycle.mp4")
	clip.Width = 1920
	ref := testUpsert(refs.ID, "/refs/pose.jpg")
	ref.Width = 1200
	upsertTestAssets(t, idx, hero, sketch, clip, ref)

	t.Run("by folder", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{FolderID: int64Ptr(refs.ID)})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 1 || result.Assets[0].FileName != "pose.jpg" {
			t.Errorf("Query(folder) = %v, want only pose.jpg", result.Assets)
		}
	})

	t.Run("by substring", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{Search: "hero"})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2 hero files", result.Total)
		}
	})

	t.Run("extension filter ignores case", func(t *testing.T) {
		// Stored ext is "PSD"; the filter says "psd".
		result, err := idx.Query(arthub.QueryParams{Extensions: []string{"psd"}})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 1 || result.Assets[0].FileName != "hero_final.PSD" {
			t.Errorf("Query(psd) = %v, want the PSD row", result.Assets)
		}

		// And the other way around, with a leading dot for good measure.
		result, err = idx.Query(arthub.QueryParams{Extensions: []string{".PNG", "JPG"}})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2 for PNG+JPG filter", result.Total)
		}
	})

	t.Run("by width range", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{MinWidth: intPtr(1000), MaxWidth: intPtr(2000)})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2 in 1000..2000", result.Total)
		}
	})

	t.Run("filters combine", func(t *testing.T) {
		result, err := idx.Query(arthub.QueryParams{
			FolderID: int64Ptr(art.ID),
			Search:   "hero",
			MinWidth: intPtr(1000),
		})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if result.Total != 1 || result.Assets[0].FileName != "hero_final.PSD" {
			t.Errorf("combined Query() = %v, want only the big hero file", result.Assets)
		}
	})
}

func TestSQLiteIndex_QuerySort(t *testing.T) {
	idx := newTestIndex(t)
	folder := insertTestFolder(t, idx, "/art", arthub.SpacePersonal)

	small := testUpsert(folder.ID, "/art/b_small.png")
	small.FileSize = 10
	small.ModifiedAt = 300
	big := testUpsert(folder.ID, "/art/a_big.png")
	big.FileSize = 900
	big.ModifiedAt = 100
	mid := testUpsert(folder.ID, "/art/c_mid.png")
	mid.FileSize = 500
	mid.ModifiedAt = 200
	upsertTestAssets(t, idx, small, big, mid)

	firstName := func(t *testing.T, p arthub.QueryParams) string {
		t.Helper()
		result, err := idx.Query(p)
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(result.Assets) == 0 {
			t.Fatal("Query() returned no rows")
		}
		return result.Assets[0].FileName
	}

	tests := []struct {
		name   string
		params arthub.QueryParams
		want   string
	}{
		{"default is name ascending", arthub.QueryParams{}, "a_big.png"},
		{"size descending", arthub.QueryParams{SortBy: "size", SortOrder: "desc"}, "a_big.png"},
		{"size ascending", arthub.QueryParams{SortBy: "size"}, "b_small.png"},
		{"modified ascending", arthub.QueryParams{SortBy: "modified"}, "a_big.png"},
		{"name descending", arthub.QueryParams{SortBy: "name", SortOrder: "desc"}, "c_mid.png"},
		{"unknown sort key falls back to name", arthub.QueryParams{SortBy: "file_size; DROP TABLE assets"}, "a_big.png"},
		{"unknown order falls back to ascending", arthub.QueryParams{SortBy: "size", SortOrder: "sideways"}, "b_small.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstName(t, tt.params); got != tt.want {
				t.Errorf("first row = %q, want %q", got, tt.want)
			}
		})
	}

	// The hostile sort key above must not have taken the table with it.
	result, err := idx.Query(arthub.QueryParams{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d after hostile sort key, want 3", result.Total)
	}
}
