package store

import (
	"context"
	"errors"

	"github.com/gemforge/cad-converter/internal/store/model"
	"gorm.io/gorm"
)

type MetalSpec interface {
	Get(ctx context.Context, conversionID string) (*model.MetalSpec, error)
}

type MetalSpecStore struct {
	db *gorm.DB
}

var _ MetalSpec = (*MetalSpecStore)(nil)

func NewMetalSpecStore(db *gorm.DB) MetalSpec {
	return &MetalSpecStore{db: db}
}

// Get returns the metal row of the conversion. Every conversion must have
// exactly one; absence maps to ErrRecordNotFound so callers can fail the job
// before talking to the CAD service.
func (s *MetalSpecStore) Get(ctx context.Context, conversionID string) (*model.MetalSpec, error) {
	var spec model.MetalSpec
	result := s.db.WithContext(ctx).
		Where("conversion_id = ?", conversionID).
		First(&spec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &spec, nil
}
