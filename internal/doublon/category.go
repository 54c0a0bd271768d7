package doublon

import (
	"path/filepath"
	"strings"
)

// Category is one of the five fixed usage categories.
type Category string

// The fixed categories. Extensions matching none of the tables fall into
// CategoryOther.
const (
	CategoryText  Category = "Text"
	CategoryImage Category = "Image"
	CategoryVideo Category = "Video"
	CategoryAudio Category = "Audio"
	CategoryOther Category = "Other"
)

// AllCategories lists the categories in display order.
//
//nolint:gochecknoglobals // Read-only reference data
var AllCategories = []Category{CategoryText, CategoryImage, CategoryVideo, CategoryAudio, CategoryOther}

// categoryByExt maps lowercase extensions to their category. Built once at
// process start and never mutated.
//
//nolint:gochecknoglobals // Read-only reference data
var categoryByExt = map[string]Category{
	".txt":  CategoryText,
	".md":   CategoryText,
	".rtf":  CategoryText,
	".csv":  CategoryText,
	".log":  CategoryText,
	".doc":  CategoryText,
	".docx": CategoryText,
	".odt":  CategoryText,
	".pdf":  CategoryText,

	".jpg":  CategoryImage,
	".jpeg": CategoryImage,
	".png":  CategoryImage,
	".gif":  CategoryImage,
	".bmp":  CategoryImage,
	".svg":  CategoryImage,
	".webp": CategoryImage,
	".tiff": CategoryImage,

	".mp4":  CategoryVideo,
	".mkv":  CategoryVideo,
	".avi":  CategoryVideo,
	".mov":  CategoryVideo,
	".wmv":  CategoryVideo,
	".flv":  CategoryVideo,
	".webm": CategoryVideo,

	".mp3":  CategoryAudio,
	".wav":  CategoryAudio,
	".flac": CategoryAudio,
	".ogg":  CategoryAudio,
	".aac":  CategoryAudio,
	".m4a":  CategoryAudio,
}

// ParseCategory maps a name (case-insensitive) to a Category.
func ParseCategory(name string) (Category, bool) {
	for _, c := range AllCategories {
		if strings.EqualFold(name, string(c)) {
			return c, true
		}
	}

	return "", false
}

// CategoryOf returns the category of path based on its extension,
// case-insensitively. Overrides extend (and may shadow) the built-in table;
// a nil map means built-ins only.
func CategoryOf(path string, overrides map[string]Category) Category {
	ext := strings.ToLower(filepath.Ext(path))

	if c, ok := overrides[ext]; ok {
		return c
	}

	if c, ok := categoryByExt[ext]; ok {
		return c
	}

	return CategoryOther
}

// Totals accumulates byte counts per category.
type Totals map[Category]int64

// Sum returns the total over all categories.
func (t Totals) Sum() int64 {
	var sum int64
	for _, n := range t {
		sum += n
	}

	return sum
}

// Categories sums file sizes per category. It needs only the size and
// extension captured at discovery, so it never touches file content.
func Categories(records []*Record, overrides map[string]Category) Totals {
	totals := make(Totals, len(AllCategories))
	for _, c := range AllCategories {
		totals[c] = 0
	}

	for _, r := range records {
		totals[CategoryOf(r.Path, overrides)] += r.Size
	}

	return totals
}
