// Package dataset provisions the swisstopo zip code directory: it downloads
// the official archive, extracts the CSV snapshot to local disk and parses it
// into raw rows for the store. The snapshot is only replaced by an explicit
// refresh; a serving process never mutates it.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/platform/config"
	"swiss-zipcode-api/platform/logger"
)

const snapshotFileName = "plz_verzeichnis.csv"

const userAgent = "swiss-zipcode-api/1.0"

// Provider manages the on-disk dataset snapshot.
type Provider struct {
	cfg    config.DatasetConfig
	client *http.Client
	log    *logger.Logger
}

// NewProvider creates a dataset provider.
func NewProvider(cfg config.DatasetConfig, log *logger.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.GetDownloadTimeout()},
		log:    log,
	}
}

// SnapshotPath returns the location of the extracted CSV snapshot.
func (p *Provider) SnapshotPath() string {
	return filepath.Join(p.cfg.GetDatasetDir(), snapshotFileName)
}

// Ensure makes the snapshot available on disk. An existing snapshot is reused
// unless force is set; otherwise the archive is downloaded and its CSV member
// extracted. Repeated calls against an unchanged source are idempotent.
func (p *Provider) Ensure(ctx context.Context, force bool) error {
	snapshot := p.SnapshotPath()
	if !force {
		if _, err := os.Stat(snapshot); err == nil {
			return nil
		}
	}

	archive, err := p.downloadArchive(ctx)
	if err != nil {
		p.log.DatasetError("download", err)
		return fmt.Errorf("download dataset: %w", err)
	}
	defer func() {
		_ = os.Remove(archive)
	}()

	if err := extractCSV(archive, snapshot); err != nil {
		p.log.DatasetError("extract", err)
		return fmt.Errorf("extract dataset: %w", err)
	}

	p.log.Info("dataset snapshot refreshed", "path", snapshot)
	return nil
}

// Load ensures the snapshot exists and parses it into raw rows.
func (p *Provider) Load(ctx context.Context) ([]repository.Row, error) {
	if err := p.Ensure(ctx, false); err != nil {
		return nil, err
	}

	rows, err := ParseFile(p.SnapshotPath())
	if err != nil {
		p.log.DatasetError("parse", err)
		return nil, err
	}
	return rows, nil
}

// downloadArchive fetches the dataset archive into a temporary file inside the
// dataset directory and returns its path.
func (p *Provider) downloadArchive(ctx context.Context) (string, error) {
	if err := os.MkdirAll(p.cfg.GetDatasetDir(), 0o755); err != nil {
		return "", fmt.Errorf("create dataset dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.GetDatasetURL(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(p.cfg.GetDatasetDir(), "plzo-*.zip")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}
