package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photomind/internal/domain"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.CatalogTag{})
}

// ListNames returns every catalog name as stored.
func (r *TagRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&domain.CatalogTag{}).Pluck("name", &names).Error
	return names, err
}

// Upsert adds names that are not yet in the catalog. Existing rows are left
// untouched.
func (r *TagRepository) Upsert(ctx context.Context, names []string) error {
	now := time.Now()
	seen := make(map[string]struct{}, len(names))
	rows := make([]domain.CatalogTag, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		rows = append(rows, domain.CatalogTag{Name: n, CreatedAt: now})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
