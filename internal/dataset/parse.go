package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"swiss-zipcode-api/internal/zipcode/repository"
)

// Column layout of the swisstopo PLZO CSV. The file is Latin-1 encoded and
// semicolon separated, with a header row.
const (
	colOfficialName = 0
	colZipCode      = 1
	colExtraDigit   = 2
	colMunicipality = 3
	colBfsNumber    = 4
	colCanton       = 5
	colEasting      = 6
	colNorthing     = 7

	expectedColumns = 8
)

// ParseFile reads a dataset snapshot into raw rows, sorted by zip code.
//
// The source lists NPA6 localities, so one zip code can appear once per extra
// digit. ParseFile collapses those to a single row per zip code, keeping the
// lowest extra digit (the primary locality). The result is independent of row
// order in the file. Structural problems such as ragged rows, non-numeric zip
// codes or repeated extra digits fail the whole parse.
func ParseFile(path string) ([]repository.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return parse(charmap.ISO8859_1.NewDecoder().Reader(f))
}

type candidateRow struct {
	extraDigit int
	row        repository.Row
}

func parse(r io.Reader) ([]repository.Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != expectedColumns {
		return nil, fmt.Errorf("expected %d columns, header has %d", expectedColumns, len(header))
	}

	candidates := make(map[int]candidateRow)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		zipText := strings.TrimSpace(record[colZipCode])
		zip, err := strconv.Atoi(zipText)
		if err != nil {
			return nil, fmt.Errorf("line %d: zip code %q is not numeric", line, zipText)
		}

		extraText := strings.TrimSpace(record[colExtraDigit])
		extra, err := strconv.Atoi(extraText)
		if err != nil {
			return nil, fmt.Errorf("line %d: extra digit %q is not numeric", line, extraText)
		}

		row := repository.Row{
			ZipCode:      zipText,
			OfficialName: strings.TrimSpace(record[colOfficialName]),
			Municipality: strings.TrimSpace(record[colMunicipality]),
			Canton:       strings.TrimSpace(record[colCanton]),
			E:            strings.TrimSpace(record[colEasting]),
			N:            strings.TrimSpace(record[colNorthing]),
		}

		existing, seen := candidates[zip]
		switch {
		case !seen:
			candidates[zip] = candidateRow{extraDigit: extra, row: row}
		case extra == existing.extraDigit:
			return nil, fmt.Errorf("line %d: zip code %d repeats extra digit %d", line, zip, extra)
		case extra < existing.extraDigit:
			candidates[zip] = candidateRow{extraDigit: extra, row: row}
		}
	}

	codes := make([]int, 0, len(candidates))
	for code := range candidates {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	rows := make([]repository.Row, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, candidates[code].row)
	}
	return rows, nil
}
