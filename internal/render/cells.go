package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/videos"
)

// ErrUnknownColumn is returned by Validate for columns without a cell function
var ErrUnknownColumn = errors.New("unknown column")

const notAvailable = "N/A"

// CellFunc produces the text of one cell. index is the item's position in
// the fetched list.
type CellFunc func(index int, item videos.Item) string

var cellFuncs = map[string]CellFunc{
	columns.Index:          func(i int, _ videos.Item) string { return strconv.Itoa(i + 1) },
	columns.DownloadStatus: func(_ int, v videos.Item) string { return v.DownloadStatus },
	columns.WatchURL:       func(_ int, v videos.Item) string { return v.WatchURL },
	columns.Title:          func(_ int, v videos.Item) string { return v.Title },
	columns.Author:         func(_ int, v videos.Item) string { return v.Author },
	columns.Length:         func(_ int, v videos.Item) string { return orNA(v.Length) },
	columns.PublishDate:    func(_ int, v videos.Item) string { return v.PublishDate },
	columns.Views:          func(_ int, v videos.Item) string { return orNA(v.Views) },
	columns.ThumbnailURL:   func(_ int, v videos.Item) string { return v.ThumbnailURL },
	columns.Rating:         func(_ int, v videos.Item) string { return v.Rating },
	columns.VideoID:        func(_ int, v videos.Item) string { return v.VideoID },
	columns.Quality:        func(_ int, v videos.Item) string { return v.QualityStr },
	columns.FileSize:       func(_ int, v videos.Item) string { return orNA(v.VideoSizeMB) },
	columns.Description:    func(_ int, v videos.Item) string { return flatten(v.Description) },
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// flatten collapses whitespace so multi-line text fits in a single cell
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Validate reports every column that has no cell function
func Validate(cols []columns.Column) error {
	var unknown []string
	for _, c := range cols {
		if _, ok := cellFuncs[c.Name]; !ok {
			unknown = append(unknown, c.Name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(unknown, ", "))
	}
	return nil
}

// CellText renders a single cell
func CellText(name string, index int, item videos.Item) (string, error) {
	fn, ok := cellFuncs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return fn(index, item), nil
}
