package content

import (
	"strings"
	"time"
)

type Link struct {
	Row         int       `json:"row_number"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"desc"`
	CategoryKey string    `json:"category_id"`
	Kind        string    `json:"kind"`
	Language    string    `json:"lang"`
	Sender      string    `json:"sender"`
	Source      string    `json:"source"`
	CreateTime  time.Time `json:"create_time"`
	FilePath    string    `json:"file_path"`

	// RawCategory is the cell as written in the sheet, before canonicalization.
	RawCategory string `json:"-"`
}

// ImagePath is where the screenshot of the link page lives, relative to the
// site root.
func (l Link) ImagePath() string {
	return l.FilePath + ".png"
}

// Slug is the file name of the link page without the extension.
func (l Link) Slug() string {
	name := l.FilePath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".html")
}

func (l Link) String() string {
	return "Link(" + l.URL + ")"
}
