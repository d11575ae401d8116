package store

import (
	"context"
	"errors"
	"time"

	"github.com/gemforge/cad-converter/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Conversion interface {
	Get(ctx context.Context, id string) (*model.Conversion, error)
	UpdateStatus(ctx context.Context, id string, status model.ConversionStatus, currentStep int) (*model.Conversion, error)
	Complete(ctx context.Context, id string, urls model.ModelURLs, completedAt time.Time) (*model.Conversion, error)
	Fail(ctx context.Context, id string, message string) (*model.Conversion, error)
	CountByStatus(ctx context.Context) (map[model.ConversionStatus]int64, error)
}

// terminal marker for current_step once the pipeline finished successfully.
const StepCompleted = 4

// step reached while the CAD service call is in flight.
const StepGeneratingCAD = 3

type ConversionStore struct {
	db *gorm.DB
}

// Make sure we conform to Conversion interface
var _ Conversion = (*ConversionStore)(nil)

func NewConversionStore(db *gorm.DB) Conversion {
	return &ConversionStore{db: db}
}

func (s *ConversionStore) Get(ctx context.Context, id string) (*model.Conversion, error) {
	conversion := model.Conversion{ID: id}
	result := s.db.WithContext(ctx).First(&conversion)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &conversion, nil
}

// UpdateStatus moves the conversion to the given status and progress marker
// in a single write.
func (s *ConversionStore) UpdateStatus(ctx context.Context, id string, status model.ConversionStatus, currentStep int) (*model.Conversion, error) {
	conversion := model.Conversion{ID: id, Status: status, CurrentStep: currentStep}

	result := s.db.WithContext(ctx).
		Model(&conversion).
		Clauses(clause.Returning{}).
		Select("status", "current_step").
		Updates(&conversion)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return &conversion, nil
}

// CountByStatus returns the number of conversions per status.
func (s *ConversionStore) CountByStatus(ctx context.Context) (map[model.ConversionStatus]int64, error) {
	rows := []struct {
		Status model.ConversionStatus
		Total  int64
	}{}

	result := s.db.WithContext(ctx).
		Model(&model.Conversion{}).
		Select("status, count(*) as total").
		Group("status").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[model.ConversionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// Complete records the three public model URLs, the completion timestamp and
// the terminal status in one write.
func (s *ConversionStore) Complete(ctx context.Context, id string, urls model.ModelURLs, completedAt time.Time) (*model.Conversion, error) {
	conversion := model.Conversion{
		ID:          id,
		Status:      model.ConversionStatusCompleted,
		CurrentStep: StepCompleted,
		CadFileURL:  &urls.Step,
		StlFileURL:  &urls.Stl,
		ObjFileURL:  &urls.Obj,
		CompletedAt: &completedAt,
	}

	result := s.db.WithContext(ctx).
		Model(&conversion).
		Clauses(clause.Returning{}).
		Select("status", "current_step", "cad_file_url", "stl_file_url", "obj_file_url", "completed_at").
		Updates(&conversion)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return &conversion, nil
}

// Fail marks the conversion failed, resets the progress marker and stores the
// error text for the operator.
func (s *ConversionStore) Fail(ctx context.Context, id string, message string) (*model.Conversion, error) {
	conversion := model.Conversion{
		ID:           id,
		Status:       model.ConversionStatusFailed,
		CurrentStep:  0,
		ErrorMessage: &message,
	}

	result := s.db.WithContext(ctx).
		Model(&conversion).
		Clauses(clause.Returning{}).
		Select("status", "current_step", "error_message").
		Updates(&conversion)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return &conversion, nil
}
