package extractor

import "fmt"

const systemPrompt = "You are a precise data extraction assistant that extracts " +
	"specific attributes from product information. Always respond with valid JSON."

const promptTemplate = `Extract the following attributes from this vape product information:
- Brand
- Model/Type
- Flavor
- Puff Count
- Nicotine Strength
- Battery Capacity
- Coil Type

Product Information:
%s

Return ONLY a JSON object with the following structure, no other text:
{
    "brand": "extracted brand",
    "model": "extracted model/type",
    "flavor": "extracted flavor",
    "puff_count": "extracted puff count",
    "nicotine_strength": "extracted nicotine strength",
    "battery_capacity": "extracted battery capacity",
    "coil_type": "extracted coil type"
}

If an attribute cannot be found, use "N/A" as the value.`

func buildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}
