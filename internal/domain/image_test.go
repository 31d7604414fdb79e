package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortByRecency(t *testing.T) {
	images := []Image{
		{ID: "none"},
		{ID: "mid", DateModified: "1700000000.25"},
		{ID: "bad", DateModified: "n/a"},
		{ID: "newest", DateModified: " 1700000500 "},
		{ID: "oldest", DateModified: "1600000000"},
	}

	SortByRecency(images)

	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	assert.Equal(t, []string{"newest", "mid", "oldest", "none", "bad"}, ids)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 123456789)

	assert.Equal(t, "1700000000.123456", FormatTimestamp(ts))
	assert.InDelta(t, 1700000000.123456, Image{DateModified: FormatTimestamp(ts)}.ModifiedAt(), 1e-6)
}

func TestKeys(t *testing.T) {
	img := Image{ID: "0f8fad5b", Filename: "cat photo.jpg"}

	assert.Equal(t, "0f8fad5b_cat photo.jpg", img.ObjectKey())
	assert.Equal(t, "thumbnails/0f8fad5b_thumb.jpg", ThumbnailKey(img.ID))
}

func TestHasTag(t *testing.T) {
	img := Image{Tags: []Tag{{Name: "Beach", Confidence: 90}}}

	assert.True(t, img.HasTag("beach"))
	assert.False(t, img.HasTag("city"))
}
