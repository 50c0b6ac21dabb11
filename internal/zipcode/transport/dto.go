package transport

// Locations

type PlanarCoordinatesResponse struct {
	E string `json:"e"`
	N string `json:"n"`
}

type LocationResponse struct {
	ZipCode      int                        `json:"zipCode"`
	OfficialName string                     `json:"officialName"`
	Canton       string                     `json:"canton"`
	CantonName   string                     `json:"cantonName,omitempty"`
	Municipality string                     `json:"municipality"`
	Coordinates  *PlanarCoordinatesResponse `json:"coordinates,omitempty"`
}

type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Total int                `json:"total"`
}

type GeodeticResponse struct {
	ZipCode      int    `json:"zipCode"`
	OfficialName string `json:"officialName"`
	Longitude    string `json:"longitude"`
	Latitude     string `json:"latitude"`
}

// Reverse lookups

type MunicipalityZipcodesRequest struct {
	Name string `form:"name" validate:"required,min=1,max=100"`
}

type MunicipalityZipcodesResponse struct {
	Municipality string `json:"municipality"`
	ZipCodes     []int  `json:"zipCodes"`
}

type CantonZipcodesResponse struct {
	Canton   string `json:"canton"`
	ZipCodes []int  `json:"zipCodes"`
}

type CantonResponse struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

type CantonListResponse struct {
	Items []CantonResponse `json:"items"`
	Total int              `json:"total"`
}

type MunicipalityListResponse struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

// Coordinate conversion

type ConvertRequest struct {
	E string `form:"e" validate:"required,max=30"`
	N string `form:"n" validate:"required,max=30"`
}

type ConvertResponse struct {
	E         string `json:"e"`
	N         string `json:"n"`
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

// Dataset

type DatasetStatsResponse struct {
	Records         int `json:"records"`
	WithCoordinates int `json:"withCoordinates"`
	Municipalities  int `json:"municipalities"`
	Cantons         int `json:"cantons"`
}

// GeoJSON export. Positions are [longitude, latitude] as the format requires.

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

type GeoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   GeoJSONGeometry   `json:"geometry"`
	Properties GeoJSONProperties `json:"properties"`
}

type GeoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type GeoJSONProperties struct {
	ZipCode      int    `json:"zipCode"`
	OfficialName string `json:"officialName"`
	Canton       string `json:"canton"`
	Municipality string `json:"municipality"`
}
