package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/benbjohnson/clock"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

const exportTimeLayout = "2006-01-02 15:04"

// ExportService renders journal entries for download.
type ExportService struct {
	repo  *repository.EntryRepository
	clock clock.Clock
}

func NewExportService(repo *repository.EntryRepository, clk clock.Clock) *ExportService {
	return &ExportService{repo: repo, clock: clk}
}

// Export renders the entries of a period in the requested format and
// returns the payload with its content type.
func (s *ExportService) Export(ctx context.Context, format, period string) ([]byte, string, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}
	entries = FilterByPeriod(entries, period, s.clock.Now())

	switch format {
	case FormatCSV:
		payload, err := renderCSV(entries)
		return payload, "text/csv; charset=utf-8", err
	case FormatJSON:
		payload, err := json.MarshalIndent(entries, "", "  ")
		return payload, "application/json", err
	case FormatTXT:
		return renderTXT(entries), "text/plain; charset=utf-8", nil
	default:
		return nil, "", &models.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

var csvHeader = []string{"Date", "Mood", "Energy", "Stress", "Activity", "Sleep", "Social", "Notes"}

func renderCSV(entries []models.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.Timestamp.Format(exportTimeLayout),
			strconv.Itoa(entry.Mood),
			strconv.Itoa(entry.Energy),
			strconv.Itoa(entry.Stress),
			strconv.Itoa(entry.Activity),
			strconv.Itoa(entry.Sleep),
			strconv.Itoa(entry.Social),
			entry.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderTXT(entries []models.Entry) []byte {
	var buf bytes.Buffer
	for i, entry := range entries {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "Date: %s\n", entry.Timestamp.Format(exportTimeLayout))
		fmt.Fprintf(&buf, "Mood: %d\n", entry.Mood)
		fmt.Fprintf(&buf, "Energy: %d\n", entry.Energy)
		fmt.Fprintf(&buf, "Stress: %d\n", entry.Stress)
		fmt.Fprintf(&buf, "Activity: %d\n", entry.Activity)
		fmt.Fprintf(&buf, "Sleep: %d\n", entry.Sleep)
		fmt.Fprintf(&buf, "Social: %d\n", entry.Social)
		fmt.Fprintf(&buf, "Notes: %s\n", entry.Notes)
		buf.WriteString("-------------------\n")
	}
	return buf.Bytes()
}
