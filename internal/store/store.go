package store

import (
	"github.com/gemforge/cad-converter/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	Conversion() Conversion
	GemstoneSpec() GemstoneSpec
	MetalSpec() MetalSpec
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db           *gorm.DB
	conversion   Conversion
	gemstoneSpec GemstoneSpec
	metalSpec    MetalSpec
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:           db,
		conversion:   NewConversionStore(db),
		gemstoneSpec: NewGemstoneSpecStore(db),
		metalSpec:    NewMetalSpecStore(db),
	}
}

func (s *DataStore) Conversion() Conversion {
	return s.conversion
}

func (s *DataStore) GemstoneSpec() GemstoneSpec {
	return s.gemstoneSpec
}

func (s *DataStore) MetalSpec() MetalSpec {
	return s.metalSpec
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Conversion{},
		&model.GemstoneSpec{},
		&model.MetalSpec{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
