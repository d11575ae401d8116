package model

import (
	"encoding/json"
	"time"
)

type ConversionStatus string

const (
	ConversionStatusPending       ConversionStatus = "pending"
	ConversionStatusGeneratingCAD ConversionStatus = "generating_cad"
	ConversionStatusCompleted     ConversionStatus = "completed"
	ConversionStatusFailed        ConversionStatus = "failed"
)

// Conversion is a job row owned by the upstream design pipeline. This service
// never creates or deletes conversions, it only reads them and moves them
// between statuses.
type Conversion struct {
	ID          string           `gorm:"primaryKey;column:id;type:VARCHAR;size:64"`
	UserID      string           `gorm:"column:user_id;type:VARCHAR;size:64"`
	Status      ConversionStatus `gorm:"column:status;type:VARCHAR;size:32;not null;default:pending"`
	CurrentStep int              `gorm:"column:current_step;not null;default:0"`

	VectorizedSVGURL *string `gorm:"column:vectorized_svg_url"`

	CadFileURL *string `gorm:"column:cad_file_url"`
	StlFileURL *string `gorm:"column:stl_file_url"`
	ObjFileURL *string `gorm:"column:obj_file_url"`

	ErrorMessage *string    `gorm:"column:error_message"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ConversionList []Conversion

func (c Conversion) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}

// ModelURLs carries the public addresses of the three generated model files.
type ModelURLs struct {
	Step string
	Stl  string
	Obj  string
}
