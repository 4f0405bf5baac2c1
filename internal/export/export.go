// Package export writes localized spell lists to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV writes one row per spell.
	FormatCSV Format = "csv"
	// FormatJSON writes the spells as a JSON array.
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	FilePath   string
	PrettyJSON bool
	Overwrite  bool
}

// Exporter writes spells to a file.
type Exporter struct {
	opts Options
}

// NewExporter creates a new Exporter with the given options.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes spells to the configured file.
func (e *Exporter) Export(spells []catalog.Spell) (err error) {
	if e.opts.Format != FormatCSV && e.opts.Format != FormatJSON {
		return fmt.Errorf("unsupported export format: %s", e.opts.Format)
	}

	file, err := e.createFile()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return ToWriter(file, e.opts.Format, spells, e.opts.PrettyJSON)
}

// createFile creates the output file, honouring the overwrite setting.
func (e *Exporter) createFile() (*os.File, error) {
	if e.opts.FilePath == "" {
		return nil, fmt.Errorf("no output file given")
	}

	dir := filepath.Dir(e.opts.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(e.opts.FilePath); err == nil && !e.opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", e.opts.FilePath)
	}

	file, err := os.Create(e.opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// ToWriter writes spells to w. Useful for stdout.
func ToWriter(w io.Writer, format Format, spells []catalog.Spell, prettyJSON bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if prettyJSON {
			encoder.SetIndent("", "  ")
		}
		if spells == nil {
			spells = []catalog.Spell{}
		}
		return encoder.Encode(spells)
	case FormatCSV:
		return writeCSV(w, spells)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// Header is the CSV column order.
var Header = []string{
	"id", "name_unique", "name", "schools", "type", "description",
	"cost", "maintenance_cost", "casting_time", "duration", "range",
	"resisted_by", "very_hard", "prerequisites", "item", "creation_cost",
	"reference",
}

func writeCSV(w io.Writer, spells []catalog.Spell) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range spells {
		if err := writer.Write(row(&spells[i])); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// row flattens a spell; multi-valued fields are joined with "; ".
func row(s *catalog.Spell) []string {
	prereqs := make([]string, len(s.PrerequisitesObj))
	for i, p := range s.PrerequisitesObj {
		prereqs[i] = p.NameUnique
	}

	return []string{
		strconv.Itoa(s.ID),
		s.NameUnique,
		s.Name,
		strings.Join(s.Schools, "; "),
		s.Type,
		s.Description,
		s.CostText,
		s.MaintenanceCostText,
		s.CastingTime,
		s.Duration,
		s.Range,
		s.ResistedBy,
		strconv.FormatBool(s.VeryHard),
		strings.Join(prereqs, "; "),
		s.ItemDescription,
		s.CreationCost,
		s.Reference,
	}
}

// GenerateFilename builds a default file name such as
// "spells_pt_20240101_120000.csv".
func GenerateFilename(lang catalog.Language, format Format, now time.Time) string {
	return fmt.Sprintf("spells_%s_%s.%s", lang, now.Format("20060102_150405"), format)
}
