package mappers

import (
	"strconv"

	"github.com/gemforge/cad-converter/internal/client"
	"github.com/gemforge/cad-converter/internal/store/model"
)

// ToConvertRequest assembles the outbound CAD payload from the stored rows.
// Numeric fields arrive as text from the intake tables and are parsed here;
// a non-numeric value aborts the conversion instead of being sent as NaN.
func ToConvertRequest(conversion *model.Conversion, gemstones []model.GemstoneSpec, metal *model.MetalSpec) (client.ConvertRequest, error) {
	request := client.ConvertRequest{
		DesignID:      conversion.ID,
		GemstoneSpecs: make([]client.GemstoneSpec, 0, len(gemstones)),
	}
	if conversion.VectorizedSVGURL != nil {
		request.SvgURL = *conversion.VectorizedSVGURL
	}

	for _, g := range gemstones {
		sizeMM, err := parseSpecValue("size_mm", g.SizeMM)
		if err != nil {
			return client.ConvertRequest{}, err
		}
		diaWt, err := parseSpecValue("dia_wt", g.DiamondWeight)
		if err != nil {
			return client.ConvertRequest{}, err
		}

		request.GemstoneSpecs = append(request.GemstoneSpecs, client.GemstoneSpec{
			Shape:       g.Shape,
			SizeMM:      sizeMM,
			DiaWt:       diaWt,
			Quantity:    g.Quantity,
			SettingType: g.SettingType,
		})
	}

	weightGrams, err := parseSpecValue("gold_weight", metal.GoldWeight)
	if err != nil {
		return client.ConvertRequest{}, err
	}

	request.MetalSpecs = client.MetalSpec{
		Type:        metal.Color,
		Karat:       metal.Karat,
		WeightGrams: weightGrams,
		Tone:        metal.Tone,
	}

	return request, nil
}

func parseSpecValue(field, value string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, NewErrInvalidSpecValue(field, value)
	}
	return parsed, nil
}
