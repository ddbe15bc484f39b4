package source

import (
	"encoding/json"

	"atlas/internal/catalog/models"
)

// wireCountry is the external record shape. The country code arrives as
// either "code" or the aliased "alpha2Code" depending on the upstream;
// both are accepted, with "code" winning when both are present.
type wireCountry struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	Code       string `json:"code"`
	Alpha2Code string `json:"alpha2Code"`
	Capital    string `json:"capital"`
}

func (w wireCountry) toCountry() models.Country {
	code := w.Code
	if code == "" {
		code = w.Alpha2Code
	}
	return models.NewCountry(w.Name, w.Region, code, w.Capital)
}

// decodeCountries parses a JSON array of country objects. Missing fields
// normalize to the placeholder and a single malformed element is skipped
// rather than failing the whole payload; only a body that is not an array
// at all is an error. An empty array decodes to an empty, non-nil slice.
func decodeCountries(body []byte) ([]models.Country, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	countries := make([]models.Country, 0, len(raw))
	for _, element := range raw {
		var w wireCountry
		if err := json.Unmarshal(element, &w); err != nil {
			continue
		}
		countries = append(countries, w.toCountry())
	}
	return countries, nil
}
