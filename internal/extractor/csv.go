package extractor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var csvHeader = []string{
	"site", "brand", "model", "flavor", "puff_count",
	"nicotine_strength", "battery_capacity", "coil_type",
}

// WriteCSV saves records to a timestamped CSV under dir and returns the
// written path.
func WriteCSV(dir string, records []Record, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}

	name := fmt.Sprintf("structured_products_%s.csv", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Site, rec.Brand, rec.Model, rec.Flavor, rec.PuffCount,
			rec.NicotineStrength, rec.BatteryCapacity, rec.CoilType,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}
