package extractor

import (
	"encoding/json"
	"fmt"
)

// Attributes is the structured record extracted per product. Unknown values
// are "N/A".
type Attributes struct {
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	Flavor           string `json:"flavor"`
	PuffCount        string `json:"puff_count"`
	NicotineStrength string `json:"nicotine_strength"`
	BatteryCapacity  string `json:"battery_capacity"`
	CoilType         string `json:"coil_type"`
}

// Record pairs extracted attributes with the site they came from.
type Record struct {
	Site string
	Attributes
}

const unknownValue = "N/A"

func defaultAttributes() Attributes {
	return Attributes{
		Brand:            unknownValue,
		Model:            unknownValue,
		Flavor:           unknownValue,
		PuffCount:        unknownValue,
		NicotineStrength: unknownValue,
		BatteryCapacity:  unknownValue,
		CoilType:         unknownValue,
	}
}

var requiredFields = []string{
	"brand", "model", "flavor", "puff_count",
	"nicotine_strength", "battery_capacity", "coil_type",
}

// parseAttributes decodes a model response, requiring every field to be
// present. Non-string values are stringified rather than rejected.
func parseAttributes(raw string) (Attributes, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Attributes{}, fmt.Errorf("decode response: %w", err)
	}
	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		v, ok := fields[name]
		if !ok {
			return Attributes{}, fmt.Errorf("response missing field %q", name)
		}
		switch t := v.(type) {
		case string:
			values[name] = t
		default:
			values[name] = fmt.Sprint(t)
		}
	}
	return Attributes{
		Brand:            values["brand"],
		Model:            values["model"],
		Flavor:           values["flavor"],
		PuffCount:        values["puff_count"],
		NicotineStrength: values["nicotine_strength"],
		BatteryCapacity:  values["battery_capacity"],
		CoilType:         values["coil_type"],
	}, nil
}
