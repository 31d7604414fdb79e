package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"photomind/internal/domain"
)

// imageTagRow stores one label of an image. Confidence is kept as a
// fixed-point decimal and converted to float64 on read.
type imageTagRow struct {
	ImageID    string          `gorm:"column:image_id;primaryKey"`
	Position   int             `gorm:"column:position;primaryKey;autoIncrement:false"`
	Name       string          `gorm:"column:name;index"`
	Confidence decimal.Decimal `gorm:"column:confidence;type:numeric"`
}

func (imageTagRow) TableName() string { return "image_tags" }

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.Image{}, &imageTagRow{})
}

// Create writes the image and its tags in one transaction.
func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(img).Error; err != nil {
			return err
		}
		rows := tagRows(img.ID, img.Tags)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateImage
	}
	return err
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	images := []domain.Image{img}
	if err := r.attachTags(ctx, images); err != nil {
		return nil, err
	}
	return &images[0], nil
}

// List returns every image with its tags. Order is unspecified.
func (r *ImageRepository) List(ctx context.Context) ([]domain.Image, error) {
	var images []domain.Image
	if err := r.db.WithContext(ctx).Find(&images).Error; err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// ListByTagNames returns images carrying at least one of names
// (case-insensitive).
func (r *ImageRepository) ListByTagNames(ctx context.Context, names []string) ([]domain.Image, error) {
	lowered := lowerAll(names)
	if len(lowered) == 0 {
		return []domain.Image{}, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&imageTagRow{}).
		Distinct("image_id").
		Where("LOWER(name) IN ?", lowered).
		Pluck("image_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Image{}, nil
	}

	var images []domain.Image
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Image{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrImageNotFound
		}
		return tx.Where("image_id = ?", id).Delete(&imageTagRow{}).Error
	})
}

func (r *ImageRepository) attachTags(ctx context.Context, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}

	var rows []imageTagRow
	err := r.db.WithContext(ctx).
		Where("image_id IN ?", ids).
		Order("image_id, position").
		Find(&rows).Error
	if err != nil {
		return err
	}

	byImage := make(map[string][]domain.Tag, len(images))
	for _, row := range rows {
		byImage[row.ImageID] = append(byImage[row.ImageID], domain.Tag{
			Name:       row.Name,
			Confidence: row.Confidence.InexactFloat64(),
		})
	}
	for i := range images {
		tags := byImage[images[i].ID]
		if tags == nil {
			tags = []domain.Tag{}
		}
		images[i].Tags = tags
	}
	return nil
}

func tagRows(imageID string, tags []domain.Tag) []imageTagRow {
	rows := make([]imageTagRow, 0, len(tags))
	for i, t := range tags {
		rows = append(rows, imageTagRow{
			ImageID:    imageID,
			Position:   i,
			Name:       t.Name,
			Confidence: decimal.NewFromFloat(t.Confidence),
		})
	}
	return rows
}

func lowerAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
