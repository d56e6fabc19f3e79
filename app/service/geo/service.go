package geo

import (
	"log/slog"
	"statebot/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Service resolves coordinates to the US state of the nearest postal code.
type Service struct {
	cfg   *config.Config
	index *Index
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	index, err := LoadIndex(cfg.Geo.DatasetPath)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded zipcode index",
		"path", cfg.Geo.DatasetPath,
		"records", index.Len())

	return &Service{
		cfg:   cfg,
		index: index,
	}, nil
}

func NewWithIndex(cfg *config.Config, index *Index) *Service {
	return &Service{cfg: cfg, index: index}
}

// Resolve finds the nearest postal code within the configured radius and
// maps it to its state. A miss is a normal outcome, not an error: the
// caller is expected to re-prompt the user for a location.
func (s *Service) Resolve(lat, long float64) (string, bool) {
	nearest, found := s.index.Nearest(lat, long, s.cfg.Geo.RadiusMiles)
	if !found {
		slog.Debug("No zipcode within radius",
			"lat", lat,
			"long", long,
			"radius_miles", s.cfg.Geo.RadiusMiles)
		return "", false
	}

	recordIndex := pie.FindFirstUsing(s.index.records, func(r ZipRecord) bool {
		return r.Zip == nearest.Zip
	})
	if recordIndex < 0 {
		return "", false
	}

	state := s.index.records[recordIndex].State
	if state == "" {
		return "", false
	}

	slog.Debug("Resolved coordinates",
		"lat", lat,
		"long", long,
		"zip", nearest.Zip,
		"state", state)

	return state, true
}
