package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ImageMetrics holds capture-quality figures recorded for one image.
type ImageMetrics struct {
	LensScore  string
	Focus      string
	Visibility string
}

// unknownMetric is shown when no figure was recorded for an image.
const unknownMetric = "N/A"

// Metrics is a read-only side table of per-image capture metrics, keyed by
// image file name.
type Metrics struct {
	rows map[string]ImageMetrics
}

// EmptyMetrics returns a table with no recorded figures.
func EmptyMetrics() *Metrics {
	return &Metrics{rows: make(map[string]ImageMetrics)}
}

// LoadMetrics reads the optional metrics CSV. A missing file yields an empty
// table, not an error; every lookup then reports N/A.
func LoadMetrics(path string) (*Metrics, error) {
	m := EmptyMetrics()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreIO, path, err)
	}
	if len(records) == 0 {
		return m, nil
	}

	cols := columnIndex(records[0])
	nameIdx, ok := cols["image_name"]
	if !ok {
		return m, nil
	}
	for _, row := range records[1:] {
		if nameIdx >= len(row) || row[nameIdx] == "" {
			continue
		}
		m.rows[row[nameIdx]] = ImageMetrics{
			LensScore:  field(row, cols, "lens_score"),
			Focus:      field(row, cols, "focus"),
			Visibility: field(row, cols, "visibility"),
		}
	}
	return m, nil
}

// For returns the metrics recorded for an image file name, with N/A filled
// in for anything missing.
func (m *Metrics) For(name string) ImageMetrics {
	if im, ok := m.rows[name]; ok {
		return im
	}
	return ImageMetrics{LensScore: unknownMetric, Focus: unknownMetric, Visibility: unknownMetric}
}

func field(row []string, cols map[string]int, name string) string {
	if i, ok := cols[name]; ok && i < len(row) && row[i] != "" {
		return row[i]
	}
	return unknownMetric
}
