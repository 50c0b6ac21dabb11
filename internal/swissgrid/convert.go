// Package swissgrid converts Swiss LV95 planar coordinates to WGS84 geodetic
// coordinates using the official swisstopo approximation formulas. The
// approximation is accurate to about one meter anywhere in Switzerland, which
// is sufficient for locality reference data.
package swissgrid

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PlanarCoordinates is a point in the Swiss LV95 grid, in meters.
type PlanarCoordinates struct {
	E decimal.Decimal `json:"e"`
	N decimal.Decimal `json:"n"`
}

// GeodeticCoordinates is a point on the WGS84 ellipsoid, in degrees.
type GeodeticCoordinates struct {
	Longitude decimal.Decimal `json:"longitude"`
	Latitude  decimal.Decimal `json:"latitude"`
}

// The LV95 false origin is the old Bern observatory.
var (
	falseEasting  = decimal.NewFromInt(2600000)
	falseNorthing = decimal.NewFromInt(1200000)
)

// Polynomial coefficients of the swisstopo approximation. Primed results are
// in units of 10000 seconds of arc.
var (
	lonC0 = decimal.RequireFromString("2.6779094")
	lonC1 = decimal.RequireFromString("4.728982")
	lonC2 = decimal.RequireFromString("0.791484")
	lonC3 = decimal.RequireFromString("0.1306")
	lonC4 = decimal.RequireFromString("0.0436")

	latC0 = decimal.RequireFromString("16.9023892")
	latC1 = decimal.RequireFromString("3.238272")
	latC2 = decimal.RequireFromString("0.270978")
	latC3 = decimal.RequireFromString("0.002528")
	latC4 = decimal.RequireFromString("0.0447")
	latC5 = decimal.RequireFromString("0.0140")
)

var (
	arcUnitNum = decimal.NewFromInt(100)
	arcUnitDen = decimal.NewFromInt(36)
)

// degreePlaces is the scale of returned degree values. Addition, subtraction
// and multiplication on decimals are exact; the single division by 36 below is
// the only rounding point, so results are reproducible digit for digit.
const degreePlaces = 12

// Convert maps an LV95 point to WGS84 degrees. It is pure and total: equal
// inputs always produce equal outputs, and no range checking is applied.
func Convert(p PlanarCoordinates) GeodeticCoordinates {
	// Civil coordinates relative to the false origin, in units of 1000 km.
	y := p.E.Sub(falseEasting).Shift(-6)
	x := p.N.Sub(falseNorthing).Shift(-6)

	y2 := y.Mul(y)
	y3 := y2.Mul(y)
	x2 := x.Mul(x)
	x3 := x2.Mul(x)

	lon := lonC0.
		Add(lonC1.Mul(y)).
		Add(lonC2.Mul(y).Mul(x)).
		Add(lonC3.Mul(y).Mul(x2)).
		Sub(lonC4.Mul(y3))

	lat := latC0.
		Add(latC1.Mul(x)).
		Sub(latC2.Mul(y2)).
		Sub(latC3.Mul(x2)).
		Sub(latC4.Mul(y2).Mul(x)).
		Sub(latC5.Mul(x3))

	return GeodeticCoordinates{
		Longitude: toDegrees(lon),
		Latitude:  toDegrees(lat),
	}
}

// toDegrees converts a primed value (10000 arc seconds) to degrees, rounded
// half away from zero at degreePlaces fractional digits.
func toDegrees(v decimal.Decimal) decimal.Decimal {
	return v.Mul(arcUnitNum).DivRound(arcUnitDen, degreePlaces)
}

// ParsePlanar builds planar coordinates from decimal strings as they appear in
// the dataset and in query parameters.
func ParsePlanar(e, n string) (PlanarCoordinates, error) {
	easting, err := decimal.NewFromString(e)
	if err != nil {
		return PlanarCoordinates{}, fmt.Errorf("parse easting %q: %w", e, err)
	}
	northing, err := decimal.NewFromString(n)
	if err != nil {
		return PlanarCoordinates{}, fmt.Errorf("parse northing %q: %w", n, err)
	}
	return PlanarCoordinates{E: easting, N: northing}, nil
}
