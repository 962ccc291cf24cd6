package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"studio-finder/models"
	"studio-finder/utils"
)

// CSVWriter exports search results to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteResults writes ranked results, one line per result
func (w *CSVWriter) WriteResults(summary models.Summary, results []models.SearchResult) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"rank", "studio_name", "room_name", "mode", "day", "rate",
		"total_cost", "cost_per_person", "area_sqm", "recommended_max", "official_url",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.Studio.StudioName,
			r.Room.RoomName,
			string(summary.Mode),
			string(summary.DayLabel),
			r.MatchedRateLabel,
			nullString(r.TotalCost.Valid, r.TotalCost.Decimal.String()),
			nullString(r.CostPerPerson(summary.Headcount).Valid, r.CostPerPerson(summary.Headcount).Decimal.String()),
			floatString(r.Room.AreaSqm),
			floatString(r.Room.RecommendedMax),
			r.Studio.OfficialURL,
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", r.Room.RoomName, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Results written to: %s (%d rows)", w.filePath, len(results))
	return nil
}

func nullString(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}

func floatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
