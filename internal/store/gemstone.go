package store

import (
	"context"

	"github.com/gemforge/cad-converter/internal/store/model"
	"gorm.io/gorm"
)

type GemstoneSpec interface {
	List(ctx context.Context, conversionID string) ([]model.GemstoneSpec, error)
}

type GemstoneSpecStore struct {
	db *gorm.DB
}

var _ GemstoneSpec = (*GemstoneSpecStore)(nil)

func NewGemstoneSpecStore(db *gorm.DB) GemstoneSpec {
	return &GemstoneSpecStore{db: db}
}

// List returns all gemstone rows of the conversion. Zero rows is a valid
// outcome, plain metal designs carry no stones.
func (s *GemstoneSpecStore) List(ctx context.Context, conversionID string) ([]model.GemstoneSpec, error) {
	var specs []model.GemstoneSpec
	result := s.db.WithContext(ctx).
		Where("conversion_id = ?", conversionID).
		Order("id").
		Find(&specs)
	if result.Error != nil {
		return nil, result.Error
	}
	return specs, nil
}
