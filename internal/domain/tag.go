package domain

import "time"

// Tag is one vision label attached to an image. Confidence is in [0,100].
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// CatalogTag is one row of the tag vocabulary used for tag matching.
type CatalogTag struct {
	Name      string    `gorm:"column:name;primaryKey" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (CatalogTag) TableName() string { return "tags" }

// TagMatch is one entry of a tag-match answer.
type TagMatch struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}
