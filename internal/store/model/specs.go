package model

// GemstoneSpec describes one stone of the design. A conversion can carry any
// number of them, including zero.
//
// SizeMM and DiamondWeight are stored as text because the upstream intake
// form writes them verbatim. They are parsed into numbers right before the
// CAD payload is built, and a non-numeric value fails the conversion instead
// of being coerced silently.
type GemstoneSpec struct {
	ID           uint   `gorm:"primaryKey"`
	ConversionID string `gorm:"column:conversion_id;type:VARCHAR;size:64;index;not null"`

	Shape         string `gorm:"column:shape"`
	SizeMM        string `gorm:"column:size_mm"`
	DiamondWeight string `gorm:"column:dia_wt"`
	Quantity      int    `gorm:"column:quantity;not null;default:1"`
	SettingType   string `gorm:"column:setting_type"`
}

// MetalSpec describes the metal of the design. Exactly one row is required
// per conversion; its absence is a fatal precondition failure.
type MetalSpec struct {
	ID           uint   `gorm:"primaryKey"`
	ConversionID string `gorm:"column:conversion_id;type:VARCHAR;size:64;index;not null"`

	Color      string `gorm:"column:color"`
	Karat      int    `gorm:"column:karat"`
	GoldWeight string `gorm:"column:gold_weight"`
	Tone       string `gorm:"column:tone"`
}
