package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const snapshotHeader = "Ortschaftsname;PLZ;Zusatzziffer;Gemeindename;BFS-Nr;Kantonskürzel;E;N\n"

// writeSnapshot stores CSV content Latin-1 encoded, as swisstopo ships it.
func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("encode snapshot content: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestParseFile_ReadsLatin1Snapshot(t *testing.T) {
	path := writeSnapshot(t, snapshotHeader+
		"Zürich;8001;0;Zürich;261;ZH;2683260.0;1248040.0\n"+
		"Genève;1201;0;Genève;6621;GE;2500000.0;1118000.0\n")

	rows, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	geneva := rows[0]
	if geneva.ZipCode != "1201" || geneva.OfficialName != "Genève" || geneva.Municipality != "Genève" || geneva.Canton != "GE" {
		t.Fatalf("unexpected row for 1201: %+v", geneva)
	}
	if geneva.E != "2500000.0" || geneva.N != "1118000.0" {
		t.Fatalf("unexpected coordinates for 1201: %+v", geneva)
	}

	zurich := rows[1]
	if zurich.OfficialName != "Zürich" {
		t.Fatalf("expected umlaut to survive decoding, got %q", zurich.OfficialName)
	}
}

func TestParseFile_CollapsesExtraDigitsToLowest(t *testing.T) {
	content := snapshotHeader +
		"Bern 22;3000;22;Bern;351;BE;2600100;1199800\n" +
		"Bern;3000;0;Bern;351;BE;2600000;1199750\n" +
		"Bern 60 UPD;3000;60;Bern;351;BE;2600200;1199900\n"
	path := writeSnapshot(t, content)

	rows, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 collapsed row, got %d", len(rows))
	}
	if rows[0].OfficialName != "Bern" || rows[0].E != "2600000" {
		t.Fatalf("expected the extra digit 0 row to win, got %+v", rows[0])
	}
}

func TestParseFile_CollapseIsIndependentOfRowOrder(t *testing.T) {
	forward := snapshotHeader +
		"Bern;3000;0;Bern;351;BE;2600000;1199750\n" +
		"Bern 22;3000;22;Bern;351;BE;2600100;1199800\n"
	backward := snapshotHeader +
		"Bern 22;3000;22;Bern;351;BE;2600100;1199800\n" +
		"Bern;3000;0;Bern;351;BE;2600000;1199750\n"

	first, err := ParseFile(writeSnapshot(t, forward))
	if err != nil {
		t.Fatalf("ParseFile(forward) returned error: %v", err)
	}
	second, err := ParseFile(writeSnapshot(t, backward))
	if err != nil {
		t.Fatalf("ParseFile(backward) returned error: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 row each, got %d and %d", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Fatalf("expected identical rows regardless of order, got %+v and %+v", first[0], second[0])
	}
}

func TestParseFile_SortsRowsByZipCode(t *testing.T) {
	path := writeSnapshot(t, snapshotHeader+
		"Zermatt;3920;0;Zermatt;6300;VS;;\n"+
		"Lausanne;1000;60;Lausanne;5586;VD;2537956.4;1152398.7\n"+
		"Vaduz;9490;0;Vaduz;7001;FL;2757000;1223000\n")

	rows, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ZipCode != "1000" || rows[1].ZipCode != "3920" || rows[2].ZipCode != "9490" {
		t.Fatalf("expected ascending zip order, got %s %s %s", rows[0].ZipCode, rows[1].ZipCode, rows[2].ZipCode)
	}
	if rows[1].E != "" || rows[1].N != "" {
		t.Fatalf("expected empty coordinate fields to stay empty, got %+v", rows[1])
	}
}

func TestParseFile_RejectsRaggedRow(t *testing.T) {
	path := writeSnapshot(t, snapshotHeader+
		"Bern;3000;0;Bern;351;BE;2600000\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for row with missing column")
	}
}

func TestParseFile_RejectsNonNumericZip(t *testing.T) {
	path := writeSnapshot(t, snapshotHeader+
		"Bern;30x0;0;Bern;351;BE;2600000;1199750\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for non-numeric zip code")
	}
}

func TestParseFile_RejectsRepeatedExtraDigit(t *testing.T) {
	path := writeSnapshot(t, snapshotHeader+
		"Bern;3000;0;Bern;351;BE;2600000;1199750\n"+
		"Bern Duplikat;3000;0;Bern;351;BE;2600001;1199751\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for repeated zip and extra digit pair")
	}
}

func TestParseFile_RejectsUnexpectedHeaderWidth(t *testing.T) {
	path := writeSnapshot(t, "Ortschaftsname;PLZ;Zusatzziffer;Gemeindename;BFS-Nr;Kantonskürzel;E\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for header with wrong column count")
	}
}
