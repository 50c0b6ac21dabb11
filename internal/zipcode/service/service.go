package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"swiss-zipcode-api/internal/swissgrid"
	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/internal/zipcode/transport"
	"swiss-zipcode-api/platform/apperr"
	"swiss-zipcode-api/platform/config"
)

const noCoordinatesMessage = "zip code has no coordinates"

// Service provides read operations over the zip code dataset. It composes the
// store with the grid converter and performs no caching and no retries; every
// answer comes straight from the immutable in-memory dataset.
type Service struct {
	repo repository.Repository
	cfg  config.ExportConfig
}

// New creates a new zipcode service.
func New(repo repository.Repository, cfg config.ExportConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Location retrieves a single record by zip code.
func (s *Service) Location(code int) (transport.LocationResponse, error) {
	loc, err := s.repo.Get(code)
	if err != nil {
		return transport.LocationResponse{}, err
	}
	return toLocationResponse(loc), nil
}

// Locations retrieves every record, ascending by zip code.
func (s *Service) Locations() transport.LocationListResponse {
	all := s.repo.All()
	codes := sortedCodes(all)

	items := make([]transport.LocationResponse, 0, len(codes))
	for _, code := range codes {
		items = append(items, toLocationResponse(all[code]))
	}
	return transport.LocationListResponse{Items: items, Total: len(items)}
}

// Geodetic converts a record's planar coordinates to WGS84. Records without
// coordinates fail with a no-coordinates error; every other read on the same
// record still works.
func (s *Service) Geodetic(code int) (transport.GeodeticResponse, error) {
	loc, err := s.repo.Get(code)
	if err != nil {
		return transport.GeodeticResponse{}, err
	}
	if !loc.HasCoordinates() {
		return transport.GeodeticResponse{}, apperr.NoCoordinates(noCoordinatesMessage)
	}

	geo := swissgrid.Convert(*loc.Coordinates)
	return transport.GeodeticResponse{
		ZipCode:      loc.ZipCode,
		OfficialName: loc.OfficialName,
		Longitude:    geo.Longitude.String(),
		Latitude:     geo.Latitude.String(),
	}, nil
}

// Convert converts free-standing planar coordinates, independent of the
// dataset.
func (s *Service) Convert(req transport.ConvertRequest) (transport.ConvertResponse, error) {
	planar, err := swissgrid.ParsePlanar(req.E, req.N)
	if err != nil {
		return transport.ConvertResponse{}, apperr.Wrap(apperr.KindValidation, "coordinates must be decimal numbers", err)
	}

	geo := swissgrid.Convert(planar)
	return transport.ConvertResponse{
		E:         planar.E.String(),
		N:         planar.N.String(),
		Longitude: geo.Longitude.String(),
		Latitude:  geo.Latitude.String(),
	}, nil
}

// ZipcodesForMunicipality lists the ascending zip codes of a municipality.
// Unknown names yield an empty list.
func (s *Service) ZipcodesForMunicipality(name string) transport.MunicipalityZipcodesResponse {
	return transport.MunicipalityZipcodesResponse{
		Municipality: name,
		ZipCodes:     s.repo.CodesForMunicipality(name),
	}
}

// ZipcodesForCanton lists the ascending zip codes of a canton code.
// Unknown codes yield an empty list.
func (s *Service) ZipcodesForCanton(code string) transport.CantonZipcodesResponse {
	return transport.CantonZipcodesResponse{
		Canton:   code,
		ZipCodes: s.repo.CodesForCanton(code),
	}
}

// Cantons lists the distinct canton codes with display names where known.
func (s *Service) Cantons() transport.CantonListResponse {
	codes := s.repo.Cantons()
	items := make([]transport.CantonResponse, 0, len(codes))
	for _, code := range codes {
		items = append(items, transport.CantonResponse{
			Code: code,
			Name: transport.CantonName(code),
		})
	}
	return transport.CantonListResponse{Items: items, Total: len(items)}
}

// Municipalities lists the distinct municipality names in byte order.
func (s *Service) Municipalities() transport.MunicipalityListResponse {
	names := s.repo.Municipalities()
	return transport.MunicipalityListResponse{Items: names, Total: len(names)}
}

// Stats summarizes the loaded dataset.
func (s *Service) Stats() transport.DatasetStatsResponse {
	located := 0
	for _, loc := range s.repo.All() {
		if loc.HasCoordinates() {
			located++
		}
	}
	return transport.DatasetStatsResponse{
		Records:         s.repo.Len(),
		WithCoordinates: located,
		Municipalities:  len(s.repo.Municipalities()),
		Cantons:         len(s.repo.Cantons()),
	}
}

// ExportGeoJSON builds a FeatureCollection of every record that carries
// coordinates. Conversion fans out over a bounded worker pool; workers write
// disjoint slots, and since conversion is pure the output is deterministic,
// ordered by zip code.
func (s *Service) ExportGeoJSON(ctx context.Context) (transport.GeoJSONFeatureCollection, error) {
	all := s.repo.All()
	codes := make([]int, 0, len(all))
	for code, loc := range all {
		if loc.HasCoordinates() {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)

	features := make([]transport.GeoJSONFeature, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.GetExportWorkers())

	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			loc := all[code]
			geo := swissgrid.Convert(*loc.Coordinates)
			features[i] = transport.GeoJSONFeature{
				Type: "Feature",
				Geometry: transport.GeoJSONGeometry{
					Type:        "Point",
					Coordinates: [2]float64{geo.Longitude.InexactFloat64(), geo.Latitude.InexactFloat64()},
				},
				Properties: transport.GeoJSONProperties{
					ZipCode:      loc.ZipCode,
					OfficialName: loc.OfficialName,
					Canton:       loc.Canton,
					Municipality: loc.Municipality,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return transport.GeoJSONFeatureCollection{}, fmt.Errorf("export geojson: %w", err)
	}

	return transport.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}, nil
}

func sortedCodes(all map[int]repository.Location) []int {
	codes := make([]int, 0, len(all))
	for code := range all {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

func toLocationResponse(loc repository.Location) transport.LocationResponse {
	resp := transport.LocationResponse{
		ZipCode:      loc.ZipCode,
		OfficialName: loc.OfficialName,
		Canton:       loc.Canton,
		CantonName:   transport.CantonName(loc.Canton),
		Municipality: loc.Municipality,
	}
	if loc.HasCoordinates() {
		resp.Coordinates = &transport.PlanarCoordinatesResponse{
			E: loc.Coordinates.E.String(),
			N: loc.Coordinates.N.String(),
		}
	}
	return resp
}
