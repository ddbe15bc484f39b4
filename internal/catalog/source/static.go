package source

import (
	"context"
	_ "embed"
	"log/slog"

	"atlas/internal/catalog/models"
)

//go:embed data/countries.json
var bundledCountries []byte

// Static serves the bundled country list when the remote source has been
// exhausted. Load is total: a missing, malformed, or empty bundle degrades
// to the single sentinel entry so the list is never blank after a failure.
type Static struct {
	log  *slog.Logger
	data []byte
}

// NewStatic builds the fallback over the embedded dataset.
func NewStatic(log *slog.Logger) *Static {
	return &Static{log: log, data: bundledCountries}
}

// newStaticWithData is the test seam for exercising the degraded paths.
func newStaticWithData(log *slog.Logger, data []byte) *Static {
	return &Static{log: log, data: data}
}

// Load decodes the bundle once per invocation.
func (s *Static) Load(ctx context.Context) []models.Country {
	_ = ctx

	countries, err := decodeCountries(s.data)
	if err != nil {
		s.log.Error("bundled dataset is malformed, serving sentinel entry", "error", err.Error())
		return []models.Country{models.FallbackSentinel()}
	}
	if len(countries) == 0 {
		s.log.Error("bundled dataset is empty, serving sentinel entry")
		return []models.Country{models.FallbackSentinel()}
	}
	return countries
}
