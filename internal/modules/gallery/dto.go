package gallery

import "photomind/internal/domain"

// ImageView is an image as the gallery pages show it.
type ImageView struct {
	domain.Image
	ThumbnailURL string `json:"thumbnail_url"`
}

func newImageView(img domain.Image) ImageView {
	return ImageView{Image: img, ThumbnailURL: "/api/thumbnail/" + img.ID}
}
