package service

import (
	"slices"
	"strings"

	"atlas/internal/catalog/models"
)

// filterCountries derives the filtered view: countries whose name or capital
// contains q case-insensitively, preserving the authoritative order. An
// empty query returns the full set. Always a fresh slice.
func filterCountries(all []models.Country, q string) []models.Country {
	if q == "" {
		return slices.Clone(all)
	}

	q = strings.ToLower(q)
	matched := make([]models.Country, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Capital), q) {
			matched = append(matched, c)
		}
	}
	return matched
}
