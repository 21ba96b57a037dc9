package co2

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImportFile reads a dataset from a .json, .xlsx or .xls file.
func ImportFile(file string) (*Dataset, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".json":
		return ImportJSON(data)
	case ".xlsx", ".xls":
		return importSpreadsheet(file, data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// ExportFile writes the dataset to file, as JSON or XLSX depending on
// the extension.
func ExportFile(ds *Dataset, file string) error {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".json":
		return ds.Save(file)
	case ".xlsx":
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("create %s: %w", file, err)
		}
		if err := ExportXLSX(ds, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export type %q", ext)
	}
}
