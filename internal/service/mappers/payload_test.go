package mappers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemforge/cad-converter/internal/service/mappers"
	"github.com/gemforge/cad-converter/internal/store/model"
)

func svgURL(u string) *string {
	return &u
}

func TestToConvertRequest(t *testing.T) {
	conversion := &model.Conversion{ID: "abc123", VectorizedSVGURL: svgURL("https://x/vec.svg")}
	gemstones := []model.GemstoneSpec{
		{Shape: "round", SizeMM: "1.5", DiamondWeight: "0.25", Quantity: 4, SettingType: "prong"},
		{Shape: "princess", SizeMM: "2", DiamondWeight: "0.5", Quantity: 1, SettingType: "bezel"},
	}
	metal := &model.MetalSpec{Color: "yellow", Karat: 18, GoldWeight: "5.2", Tone: "warm"}

	request, err := mappers.ToConvertRequest(conversion, gemstones, metal)
	require.NoError(t, err)

	assert.Equal(t, "https://x/vec.svg", request.SvgURL)
	assert.Equal(t, "abc123", request.DesignID)
	require.Len(t, request.GemstoneSpecs, 2)
	assert.Equal(t, 1.5, request.GemstoneSpecs[0].SizeMM)
	assert.Equal(t, 0.25, request.GemstoneSpecs[0].DiaWt)
	assert.Equal(t, 2.0, request.GemstoneSpecs[1].SizeMM)
	assert.Equal(t, "yellow", request.MetalSpecs.Type)
	assert.Equal(t, 18, request.MetalSpecs.Karat)
	assert.Equal(t, 5.2, request.MetalSpecs.WeightGrams)
	assert.Equal(t, "warm", request.MetalSpecs.Tone)
}

func TestToConvertRequestNoGemstones(t *testing.T) {
	conversion := &model.Conversion{ID: "abc123", VectorizedSVGURL: svgURL("https://x/vec.svg")}
	metal := &model.MetalSpec{Color: "white", Karat: 14, GoldWeight: "3.8"}

	request, err := mappers.ToConvertRequest(conversion, nil, metal)
	require.NoError(t, err)
	assert.NotNil(t, request.GemstoneSpecs)
	assert.Empty(t, request.GemstoneSpecs)
}

func TestToConvertRequestNonNumericGemstone(t *testing.T) {
	conversion := &model.Conversion{ID: "abc123", VectorizedSVGURL: svgURL("https://x/vec.svg")}
	gemstones := []model.GemstoneSpec{{Shape: "round", SizeMM: "big", DiamondWeight: "0.25"}}
	metal := &model.MetalSpec{Color: "yellow", Karat: 18, GoldWeight: "5.2"}

	_, err := mappers.ToConvertRequest(conversion, gemstones, metal)
	require.Error(t, err)

	var specErr *mappers.ErrInvalidSpecValue
	require.ErrorAs(t, err, &specErr)
	assert.Contains(t, err.Error(), "size_mm")
}

func TestToConvertRequestNonNumericMetalWeight(t *testing.T) {
	conversion := &model.Conversion{ID: "abc123", VectorizedSVGURL: svgURL("https://x/vec.svg")}
	metal := &model.MetalSpec{Color: "yellow", Karat: 18, GoldWeight: "heavy"}

	_, err := mappers.ToConvertRequest(conversion, nil, metal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gold_weight")
}
