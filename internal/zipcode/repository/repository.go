package repository

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"swiss-zipcode-api/internal/swissgrid"
	"swiss-zipcode-api/platform/apperr"
)

const locationNotFoundMessage = "zip code not found"

const (
	minZipCode = 1000
	maxZipCode = 9999
)

var cantonRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// Repo holds the validated dataset and its reverse indexes. All fields are
// written exactly once in Load and never mutated afterwards, so every method
// is safe for concurrent readers without locking.
type Repo struct {
	locations      map[int]Location
	byMunicipality map[string][]int
	byCanton       map[string][]int
	municipalities []string
	cantons        []string
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Load validates every row and builds the store in a single pass. The first
// invalid row aborts the build: duplicate zip codes, zip codes outside
// 1000-9999, missing names, malformed canton codes and unparsable or
// half-present coordinate pairs all fail hard rather than loading a partial
// or silently repaired dataset.
func Load(rows []Row) (*Repo, error) {
	r := &Repo{
		locations:      make(map[int]Location, len(rows)),
		byMunicipality: make(map[string][]int),
		byCanton:       make(map[string][]int),
	}

	for _, row := range rows {
		loc, err := validateRow(row)
		if err != nil {
			return nil, err
		}
		if _, exists := r.locations[loc.ZipCode]; exists {
			return nil, apperr.MalformedRecord(fmt.Sprintf("duplicate zip code %d", loc.ZipCode))
		}

		r.locations[loc.ZipCode] = loc
		r.byMunicipality[loc.Municipality] = append(r.byMunicipality[loc.Municipality], loc.ZipCode)
		r.byCanton[loc.Canton] = append(r.byCanton[loc.Canton], loc.ZipCode)
	}

	for _, codes := range r.byMunicipality {
		sort.Ints(codes)
	}
	for _, codes := range r.byCanton {
		sort.Ints(codes)
	}

	r.municipalities = sortedKeys(r.byMunicipality)
	r.cantons = sortedKeys(r.byCanton)

	return r, nil
}

func validateRow(row Row) (Location, error) {
	code, err := strconv.Atoi(strings.TrimSpace(row.ZipCode))
	if err != nil {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %q is not an integer", row.ZipCode))
	}
	if code < minZipCode || code > maxZipCode {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %d is outside %d-%d", code, minZipCode, maxZipCode))
	}

	name := strings.TrimSpace(row.OfficialName)
	if name == "" {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %d has no official name", code))
	}
	municipality := strings.TrimSpace(row.Municipality)
	if municipality == "" {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %d has no municipality", code))
	}
	canton := strings.TrimSpace(row.Canton)
	if canton == "" {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %d has no canton", code))
	}
	if !cantonRegex.MatchString(canton) {
		return Location{}, apperr.MalformedRecord(fmt.Sprintf("zip code %d has invalid canton %q", code, canton))
	}

	coords, err := parseCoordinates(code, row.E, row.N)
	if err != nil {
		return Location{}, err
	}

	return Location{
		ZipCode:      code,
		OfficialName: name,
		Canton:       canton,
		Municipality: municipality,
		Coordinates:  coords,
	}, nil
}

func parseCoordinates(code int, e, n string) (*swissgrid.PlanarCoordinates, error) {
	e = strings.TrimSpace(e)
	n = strings.TrimSpace(n)

	if e == "" && n == "" {
		return nil, nil
	}
	if e == "" || n == "" {
		return nil, apperr.MalformedRecord(fmt.Sprintf("zip code %d has a half-present coordinate pair", code))
	}

	coords, err := swissgrid.ParsePlanar(e, n)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedRecord, fmt.Sprintf("zip code %d has unparsable coordinates", code), err)
	}
	return &coords, nil
}

// Get returns the location for a zip code.
func (r *Repo) Get(code int) (Location, error) {
	loc, ok := r.locations[code]
	if !ok {
		return Location{}, apperr.NotFound(locationNotFoundMessage)
	}
	return loc, nil
}

// All returns a copy of the full mapping. Callers may mutate the returned map
// without affecting the store.
func (r *Repo) All() map[int]Location {
	out := make(map[int]Location, len(r.locations))
	for code, loc := range r.locations {
		out[code] = loc
	}
	return out
}

// Len returns the number of records in the store.
func (r *Repo) Len() int {
	return len(r.locations)
}

// CodesForMunicipality returns the ascending zip codes of a municipality.
// Unknown names yield an empty slice, not an error. Names are compared
// byte for byte; there is no case folding.
func (r *Repo) CodesForMunicipality(name string) []int {
	return copyCodes(r.byMunicipality[name])
}

// CodesForCanton returns the ascending zip codes of a canton code.
// Unknown codes yield an empty slice, not an error.
func (r *Repo) CodesForCanton(code string) []int {
	return copyCodes(r.byCanton[code])
}

// Municipalities returns the sorted, de-duplicated municipality names.
func (r *Repo) Municipalities() []string {
	return append([]string(nil), r.municipalities...)
}

// Cantons returns the sorted, de-duplicated canton codes.
func (r *Repo) Cantons() []string {
	return append([]string(nil), r.cantons...)
}

func copyCodes(codes []int) []int {
	out := make([]int, len(codes))
	copy(out, codes)
	return out
}

func sortedKeys(index map[string][]int) []string {
	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
