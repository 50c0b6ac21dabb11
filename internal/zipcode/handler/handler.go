package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"swiss-zipcode-api/internal/zipcode/service"
	"swiss-zipcode-api/internal/zipcode/transport"
	"swiss-zipcode-api/platform/apperr"
	"swiss-zipcode-api/platform/httpkit"
	"swiss-zipcode-api/platform/metrics"
	"swiss-zipcode-api/platform/validator"
)

// Handler handles HTTP requests for zip code lookups.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidZipCode   = "invalid zip code"
	msgInvalidCanton    = "invalid canton code"
)

// New creates a new zipcode handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

var cantonCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// ValidateCantonCode implements the custom "canton" validation tag: two
// uppercase letters. Unknown codes pass; the dataset decides what exists.
func ValidateCantonCode(fl validatorv10.FieldLevel) bool {
	return cantonCodeRegex.MatchString(fl.Field().String())
}

// ListLocations retrieves all records, ascending by zip code.
// GET /api/v1/zipcodes
func (h *Handler) ListLocations(c *gin.Context) {
	httpkit.OK(c, h.svc.Locations())
}

// GetLocation retrieves one record.
// GET /api/v1/zipcodes/:code
func (h *Handler) GetLocation(c *gin.Context) {
	code, ok := parseZipCode(c)
	if !ok {
		return
	}

	metrics.LookupsTotal.Inc()
	result, err := h.svc.Location(code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			metrics.LookupMissesTotal.Inc()
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

// GetGeodetic converts a record's coordinates to WGS84.
// GET /api/v1/zipcodes/:code/geodetic
func (h *Handler) GetGeodetic(c *gin.Context) {
	code, ok := parseZipCode(c)
	if !ok {
		return
	}

	result, err := h.svc.Geodetic(code)
	if httpkit.HandleError(c, err) {
		return
	}
	metrics.ConversionsTotal.Inc()
	httpkit.OK(c, result)
}

// ListCantons retrieves the distinct canton codes.
// GET /api/v1/cantons
func (h *Handler) ListCantons(c *gin.Context) {
	httpkit.OK(c, h.svc.Cantons())
}

// GetCantonZipcodes retrieves the zip codes of one canton. Unknown cantons
// yield an empty list, not a 404.
// GET /api/v1/cantons/:code/zipcodes
func (h *Handler) GetCantonZipcodes(c *gin.Context) {
	code := c.Param("code")
	if err := h.val.Var(code, "canton"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCanton, nil)
		return
	}

	httpkit.OK(c, h.svc.ZipcodesForCanton(code))
}

// ListMunicipalities retrieves the distinct municipality names.
// GET /api/v1/municipalities
func (h *Handler) ListMunicipalities(c *gin.Context) {
	httpkit.OK(c, h.svc.Municipalities())
}

// GetMunicipalityZipcodes retrieves the zip codes of one municipality. The
// name is a query parameter because official names can contain slashes
// (Biel/Bienne).
// GET /api/v1/municipalities/zipcodes?name=
func (h *Handler) GetMunicipalityZipcodes(c *gin.Context) {
	var req transport.MunicipalityZipcodesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.ZipcodesForMunicipality(req.Name))
}

// ConvertCoordinates converts free-standing LV95 coordinates.
// GET /api/v1/convert?e=&n=
func (h *Handler) ConvertCoordinates(c *gin.Context) {
	var req transport.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Convert(req)
	if httpkit.HandleError(c, err) {
		return
	}
	metrics.ConversionsTotal.Inc()
	httpkit.OK(c, result)
}

// ExportGeoJSON exports every located record as a FeatureCollection.
// GET /api/v1/export/geojson
func (h *Handler) ExportGeoJSON(c *gin.Context) {
	result, err := h.svc.ExportGeoJSON(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetDatasetStats summarizes the loaded dataset.
// GET /api/v1/dataset/stats
func (h *Handler) GetDatasetStats(c *gin.Context) {
	httpkit.OK(c, h.svc.Stats())
}

func parseZipCode(c *gin.Context) (int, bool) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidZipCode, nil)
		return 0, false
	}
	return code, true
}
