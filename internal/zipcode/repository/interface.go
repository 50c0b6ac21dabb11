package repository

import "swiss-zipcode-api/internal/swissgrid"

// Row is a raw dataset record as delivered by the provisioning layer.
// Coordinate fields are decimal strings and may both be empty when the source
// carries no position for the locality.
type Row struct {
	ZipCode      string
	OfficialName string
	Municipality string
	Canton       string
	E            string
	N            string
}

// Location is a validated zip code record. Coordinates is nil when the source
// row carried none; records are never built with placeholder positions.
type Location struct {
	ZipCode      int
	OfficialName string
	Canton       string
	Municipality string
	Coordinates  *swissgrid.PlanarCoordinates
}

// HasCoordinates reports whether the record carries a planar position.
func (l Location) HasCoordinates() bool {
	return l.Coordinates != nil
}

// Repository defines read operations over the loaded zip code dataset.
// Implementations are immutable once built and safe for concurrent readers.
type Repository interface {
	Get(code int) (Location, error)
	All() map[int]Location
	Len() int

	CodesForMunicipality(name string) []int
	CodesForCanton(code string) []int
	Municipalities() []string
	Cantons() []string
}
