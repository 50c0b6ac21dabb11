package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractCSV copies the first CSV member of the archive to dest. The write is
// atomic: the snapshot is either the previous one or the new one, never a
// partial file.
func extractCSV(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	member := firstCSVMember(reader)
	if member == nil {
		return fmt.Errorf("archive contains no csv member")
	}

	src, err := member.Open()
	if err != nil {
		return fmt.Errorf("open archive member %s: %w", member.Name, err)
	}
	defer func() {
		_ = src.Close()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "snapshot-*.csv")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func firstCSVMember(reader *zip.ReadCloser) *zip.File {
	for _, file := range reader.File {
		if strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			return file
		}
	}
	return nil
}
