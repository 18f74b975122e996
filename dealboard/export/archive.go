package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ManifestFilename is the name of the manifest inside an export archive
const ManifestFilename = "manifest.json"

// WriteArchive writes a zip holding the bundle as CSV and PDF plus a
// manifest describing the export. It returns the manifest written.
func WriteArchive(w io.Writer, bundle *Bundle) (*Manifest, error) {
	generatedAt := bundle.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	csvName := Filename(bundle.View, "csv", generatedAt)
	pdfName := Filename(bundle.View, "pdf", generatedAt)

	manifest := &Manifest{
		ExportID:    uuid.New().String(),
		View:        bundle.View,
		Title:       bundle.Title,
		GeneratedAt: generatedAt,
		Rows:        bundle.RecordCount(),
		Filters:     bundle.Filters,
		Search:      bundle.Search,
		Files:       []string{csvName, pdfName},
	}
	if len(bundle.Rows) > 0 {
		manifest.Columns = bundle.Rows[0]
	}

	var csvData, pdfData bytes.Buffer
	if err := WriteCSV(&csvData, bundle.Rows); err != nil {
		return nil, err
	}
	if err := WritePDF(&pdfData, bundle.Title, bundle.Rows); err != nil {
		return nil, err
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}

	zipWriter := zip.NewWriter(w)
	entries := []struct {
		name string
		data []byte
	}{
		{csvName, csvData.Bytes()},
		{pdfName, pdfData.Bytes()},
		{ManifestFilename, manifestData},
	}
	for _, entry := range entries {
		if err := addToZip(zipWriter, entry.name, generatedAt, entry.data); err != nil {
			return nil, fmt.Errorf("failed to add %s to zip: %w", entry.name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %w", err)
	}
	return manifest, nil
}

func addToZip(zipWriter *zip.Writer, name string, modified time.Time, data []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create file in zip: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}
	return nil
}

// ReadManifest extracts the manifest from an export archive
func ReadManifest(r io.ReaderAt, size int64) (*Manifest, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != ManifestFilename {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest: %w", err)
		}
		defer rc.Close()

		var manifest Manifest
		if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
		return &manifest, nil
	}
	return nil, fmt.Errorf("archive has no %s", ManifestFilename)
}
