package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"swiss-zipcode-api/platform/logger"
)

type testDatasetConfig struct {
	url string
	dir string
}

func (c testDatasetConfig) GetDatasetURL() string             { return c.url }
func (c testDatasetConfig) GetDatasetDir() string             { return c.dir }
func (c testDatasetConfig) GetDownloadTimeout() time.Duration { return 5 * time.Second }

// buildArchive returns a zip whose members appear in the given order.
func buildArchive(t *testing.T, members map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := writer.Create(name)
		if err != nil {
			t.Fatalf("create archive member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(members[name])); err != nil {
			t.Fatalf("write archive member %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

const archiveCSV = "Ortschaftsname;PLZ;Zusatzziffer;Gemeindename;BFS-Nr;Kantonskuerzel;E;N\n" +
	"Bern;3000;0;Bern;351;BE;2600000;1199750\n"

func serveArchive(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractCSV_PicksFirstCSVMember(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "data.zip")
	payload := buildArchive(t, map[string]string{
		"readme.txt":        "see csv",
		"PLZO_CSV_LV95.csv": archiveCSV,
		"extra.csv":         "should not be used\n",
	}, []string{"readme.txt", "PLZO_CSV_LV95.csv", "extra.csv"})
	if err := os.WriteFile(archive, payload, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	dest := filepath.Join(dir, "snapshot.csv")
	if err := extractCSV(archive, dest); err != nil {
		t.Fatalf("extractCSV returned error: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(content) != archiveCSV {
		t.Fatalf("expected first csv member content, got %q", content)
	}
}

func TestExtractCSV_FailsWithoutCSVMember(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "data.zip")
	payload := buildArchive(t, map[string]string{"readme.txt": "nothing here"}, []string{"readme.txt"})
	if err := os.WriteFile(archive, payload, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	if err := extractCSV(archive, filepath.Join(dir, "snapshot.csv")); err == nil {
		t.Fatal("expected error for archive without csv member")
	}
}

func TestProviderEnsure_DownloadsAndExtractsSnapshot(t *testing.T) {
	payload := buildArchive(t, map[string]string{"PLZO_CSV_LV95.csv": archiveCSV}, []string{"PLZO_CSV_LV95.csv"})
	server := serveArchive(t, payload)

	dir := t.TempDir()
	provider := NewProvider(testDatasetConfig{url: server.URL, dir: dir}, logger.New("development"))

	if err := provider.Ensure(context.Background(), false); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}

	content, err := os.ReadFile(provider.SnapshotPath())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(content) != archiveCSV {
		t.Fatalf("unexpected snapshot content: %q", content)
	}
}

func TestProviderEnsure_ReusesExistingSnapshot(t *testing.T) {
	payload := buildArchive(t, map[string]string{"PLZO_CSV_LV95.csv": archiveCSV}, []string{"PLZO_CSV_LV95.csv"})
	server := serveArchive(t, payload)

	dir := t.TempDir()
	provider := NewProvider(testDatasetConfig{url: server.URL, dir: dir}, logger.New("development"))

	if err := provider.Ensure(context.Background(), false); err != nil {
		t.Fatalf("first Ensure returned error: %v", err)
	}
	if err := os.WriteFile(provider.SnapshotPath(), []byte("local edit"), 0o644); err != nil {
		t.Fatalf("overwrite snapshot: %v", err)
	}

	if err := provider.Ensure(context.Background(), false); err != nil {
		t.Fatalf("second Ensure returned error: %v", err)
	}
	content, err := os.ReadFile(provider.SnapshotPath())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(content) != "local edit" {
		t.Fatal("expected Ensure without force to leave the existing snapshot alone")
	}

	if err := provider.Ensure(context.Background(), true); err != nil {
		t.Fatalf("forced Ensure returned error: %v", err)
	}
	content, err = os.ReadFile(provider.SnapshotPath())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(content) != archiveCSV {
		t.Fatal("expected forced Ensure to replace the snapshot")
	}
}

func TestProviderEnsure_FailsOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	provider := NewProvider(testDatasetConfig{url: server.URL, dir: t.TempDir()}, logger.New("development"))
	if err := provider.Ensure(context.Background(), false); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestProviderLoad_ParsesDownloadedSnapshot(t *testing.T) {
	payload := buildArchive(t, map[string]string{"PLZO_CSV_LV95.csv": archiveCSV}, []string{"PLZO_CSV_LV95.csv"})
	server := serveArchive(t, payload)

	provider := NewProvider(testDatasetConfig{url: server.URL, dir: t.TempDir()}, logger.New("development"))

	rows, err := provider.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ZipCode != "3000" || rows[0].Municipality != "Bern" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}
