package service

import (
	"fmt"
)

type ErrConversionNotFound struct {
	error
}

func NewErrConversionNotFound(id string) *ErrConversionNotFound {
	return &ErrConversionNotFound{fmt.Errorf("conversion %s not found", id)}
}

type ErrMissingVectorizedArtifact struct {
	error
}

func NewErrMissingVectorizedArtifact(id string) *ErrMissingVectorizedArtifact {
	return &ErrMissingVectorizedArtifact{fmt.Errorf("conversion %s has no vectorized svg url", id)}
}

type ErrMissingMetalSpec struct {
	error
}

func NewErrMissingMetalSpec(id string) *ErrMissingMetalSpec {
	return &ErrMissingMetalSpec{fmt.Errorf("conversion %s has no metal spec", id)}
}

type ErrCadService struct {
	error
}

func NewErrCadService(err error) *ErrCadService {
	return &ErrCadService{fmt.Errorf("CAD generation failed: %w", err)}
}
