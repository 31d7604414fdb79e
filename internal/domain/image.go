package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Image is the metadata record of one uploaded photo. Wire names follow the
// frontend contract (s3Url, dateModified, userId).
type Image struct {
	ID           string `gorm:"column:id;primaryKey" json:"id"`
	StorageURL   string `gorm:"column:s3_url" json:"s3Url"`
	Tags         []Tag  `gorm:"-" json:"tags"`
	UserID       string `gorm:"column:user_id;index" json:"userId"`
	DateModified string `gorm:"column:date_modified" json:"dateModified"`
	Filename     string `gorm:"column:filename" json:"filename"`
}

func (Image) TableName() string { return "images" }

// ObjectKey is the object store key the original bytes were written under.
func (i Image) ObjectKey() string { return ObjectKey(i.ID, i.Filename) }

// ModifiedAt parses DateModified as seconds since epoch. Missing or
// malformed values read as 0.
func (i Image) ModifiedAt() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(i.DateModified), 64)
	if err != nil {
		return 0
	}
	return v
}

// HasTag reports whether the image carries a tag with the given name,
// compared case-insensitively.
func (i Image) HasTag(name string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func ObjectKey(id, filename string) string {
	return id + "_" + filename
}

func ThumbnailKey(id string) string {
	return "thumbnails/" + id + "_thumb.jpg"
}

// FormatTimestamp renders t the way dateModified is stored: fractional epoch
// seconds as text.
func FormatTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}

// SortByRecency orders images newest first. Records without a usable
// dateModified sort last.
func SortByRecency(images []Image) {
	sort.SliceStable(images, func(a, b int) bool {
		return images[a].ModifiedAt() > images[b].ModifiedAt()
	})
}
