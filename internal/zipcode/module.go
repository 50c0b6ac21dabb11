// Package zipcode provides the zip code lookup bounded context module.
package zipcode

import (
	apphttp "swiss-zipcode-api/internal/http"
	"swiss-zipcode-api/internal/zipcode/handler"
	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/internal/zipcode/service"
	"swiss-zipcode-api/platform/config"
	"swiss-zipcode-api/platform/validator"
)

// Module is the zipcode bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the zipcode module around a loaded store.
func NewModule(repo repository.Repository, cfg config.ExportConfig, val *validator.Validator) (*Module, error) {
	if err := val.RegisterValidation("canton", handler.ValidateCantonCode); err != nil {
		return nil, err
	}

	svc := service.New(repo, cfg)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "zipcode"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts zipcode routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/zipcodes", m.handler.ListLocations)
	ctx.V1.GET("/zipcodes/:code", m.handler.GetLocation)
	ctx.V1.GET("/zipcodes/:code/geodetic", m.handler.GetGeodetic)

	ctx.V1.GET("/cantons", m.handler.ListCantons)
	ctx.V1.GET("/cantons/:code/zipcodes", m.handler.GetCantonZipcodes)

	// Municipality lookups take the name as a query parameter because official
	// names can contain slashes (Biel/Bienne).
	ctx.V1.GET("/municipalities", m.handler.ListMunicipalities)
	ctx.V1.GET("/municipalities/zipcodes", m.handler.GetMunicipalityZipcodes)

	ctx.V1.GET("/convert", m.handler.ConvertCoordinates)

	ctx.V1.GET("/export/geojson", m.handler.ExportGeoJSON)
	ctx.V1.GET("/dataset/stats", m.handler.GetDatasetStats)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
